package domain

// UserView is a profile joined with its subscription and ban, as listed in the
// back office. Sub and Ban are nil when the user has none.
type UserView struct {
	Profile Profile
	Sub     *Subscription
	Ban     *UserBan
}

// DeviceView is a device with its computed ban status.
type DeviceView struct {
	Device Device
	Banned bool
}

// Overview holds the back office headline counters.
type Overview struct {
	TotalUsers    int
	ActiveTrials  int
	ActivePaid    int
	UnusedCodes   int
	BannedUsers   int
	BannedDevices int
}
