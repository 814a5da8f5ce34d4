/*
Package desksdk is the Go client and wire types for the StudyDesk API.

The admin back office and the student gateway share one client. Every call
carries the caller's session credential as a bearer token:

	c := desksdk.NewClient("https://desk.example.com", token)

	overview, err := c.Overview(ctx)

	code, err := c.GenerateTrialCode(ctx, desksdk.GenerateTrialCodeRequest{Days: 7})

	err = c.BanUser(ctx, desksdk.BanUserRequest{UserID: id, Ban: true, Reason: "spam"})

Student calls additionally send the device headers set on the client:

	c.DeviceID = "dev-123"
	c.Fingerprint = "fp-abc"
	reply, err := c.Chat(ctx, "hello")

Non-2xx replies are returned as *APIError carrying the status and the
server's error message.
*/
package desksdk
