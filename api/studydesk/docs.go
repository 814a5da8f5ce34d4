// Package studydesk holds the OpenAPI document for the studydesk API. It is
// maintained by hand alongside the swag annotations in
// internal/studydesk/http and registered with swag so /swagger can serve it.
package studydesk

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "AussieBroadWAN Team",
			"url": "https://github.com/aussiebroadwan/studydesk"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/admin/overview": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "Headline counters",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.OverviewResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/trial-codes": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "Recent trial codes",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/desksdk.TrialCode"
							}
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/generate-trial-code": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "Generate a trial code",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.TrialCode"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.GenerateTrialCodeRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/desksdk.User"
							}
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "q",
						"type": "string"
					},
					{
						"in": "query",
						"name": "plan",
						"type": "string"
					},
					{
						"in": "query",
						"name": "active",
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/mark-paid": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "Activate a paid plan",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Upstream reply",
						"schema": {
							"type": "object"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.MarkPaidRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/devices": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "List devices",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/desksdk.Device"
							}
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "user_id",
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/reset-devices": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "Forget all devices of a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.SuccessResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.ResetDevicesRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/ban-user": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "Ban or unban a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.BanResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.BanUserRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/ban-device": {
			"post": {
				"tags": [
					"Admin"
				],
				"summary": "Ban or unban a device",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.BanResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.BanDeviceRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/logs": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "Search the audit log",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/desksdk.AuditEntry"
							}
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "q",
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/export-users": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "Export users",
				"produces": [
					"text/csv",
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
				],
				"responses": {
					"200": {
						"description": "CSV or XLSX",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "format",
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/export-codes": {
			"get": {
				"tags": [
					"Admin"
				],
				"summary": "Export trial codes",
				"produces": [
					"text/csv",
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
				],
				"responses": {
					"200": {
						"description": "CSV or XLSX",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "format",
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/me": {
			"get": {
				"tags": [
					"Student"
				],
				"summary": "Current profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.MeResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/me/profile": {
			"post": {
				"tags": [
					"Student"
				],
				"summary": "Complete registration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.MeResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.CompleteProfileRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/redeem-trial-code": {
			"post": {
				"tags": [
					"Student"
				],
				"summary": "Redeem a trial code",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Upstream reply",
						"schema": {
							"type": "object"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.RedeemTrialCodeRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/chat": {
			"post": {
				"tags": [
					"Student"
				],
				"summary": "Chat",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "Upstream reply",
						"schema": {
							"type": "object"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/desksdk.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/desksdk.ChatRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/livez": {
			"get": {
				"tags": [
					"Health"
				],
				"summary": "Liveness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.HealthResponse"
						}
					}
				}
			}
		},
		"/readyz": {
			"get": {
				"tags": [
					"Health"
				],
				"summary": "Readiness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.HealthResponse"
						}
					},
					"503": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/desksdk.HealthResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"desksdk.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"desksdk.SuccessResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				}
			}
		},
		"desksdk.BanResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"banned": {
					"type": "boolean"
				}
			}
		},
		"desksdk.HealthChecks": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"activity": {
					"type": "string"
				}
			}
		},
		"desksdk.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"checks": {
					"$ref": "#/definitions/desksdk.HealthChecks"
				}
			}
		},
		"desksdk.OverviewResponse": {
			"type": "object",
			"properties": {
				"total_users": {
					"type": "integer"
				},
				"active_trials": {
					"type": "integer"
				},
				"active_paid": {
					"type": "integer"
				},
				"unused_codes": {
					"type": "integer"
				},
				"banned_users": {
					"type": "integer"
				},
				"banned_devices": {
					"type": "integer"
				}
			}
		},
		"desksdk.TrialCode": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"used": {
					"type": "boolean"
				},
				"duration_days": {
					"type": "integer"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"used_at": {
					"type": "string",
					"format": "date-time"
				},
				"expires_at": {
					"type": "string",
					"format": "date-time"
				},
				"used_by": {
					"type": "string"
				}
			}
		},
		"desksdk.GenerateTrialCodeRequest": {
			"type": "object",
			"properties": {
				"days": {
					"type": "integer"
				},
				"expires_in_days": {
					"type": "integer"
				}
			}
		},
		"desksdk.User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"plan": {
					"type": "string"
				},
				"active": {
					"type": "boolean"
				},
				"end_at": {
					"type": "string",
					"format": "date-time"
				},
				"device_limit": {
					"type": "integer"
				},
				"ip_limit": {
					"type": "integer"
				},
				"banned": {
					"type": "boolean"
				},
				"ban_reason": {
					"type": "string"
				},
				"banned_at": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"desksdk.MarkPaidRequest": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				},
				"days": {
					"type": "integer"
				}
			}
		},
		"desksdk.Device": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				},
				"device_id": {
					"type": "string"
				},
				"fingerprint": {
					"type": "string"
				},
				"ip": {
					"type": "string"
				},
				"last_seen": {
					"type": "string",
					"format": "date-time"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"banned": {
					"type": "boolean"
				}
			}
		},
		"desksdk.ResetDevicesRequest": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				}
			}
		},
		"desksdk.BanUserRequest": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				},
				"ban": {
					"type": "boolean"
				},
				"reason": {
					"type": "string"
				}
			}
		},
		"desksdk.BanDeviceRequest": {
			"type": "object",
			"properties": {
				"ban": {
					"type": "boolean"
				},
				"reason": {
					"type": "string"
				},
				"device_id": {
					"type": "string"
				},
				"fingerprint": {
					"type": "string"
				},
				"ip": {
					"type": "string"
				}
			}
		},
		"desksdk.AuditEntry": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"actor_id": {
					"type": "string"
				},
				"actor_email": {
					"type": "string"
				},
				"action": {
					"type": "string"
				},
				"target_user_id": {
					"type": "string"
				},
				"target": {
					"type": "string"
				},
				"meta": {
					"type": "object"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"desksdk.MeResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"banned": {
					"type": "boolean"
				}
			}
		},
		"desksdk.CompleteProfileRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				}
			}
		},
		"desksdk.RedeemTrialCodeRequest": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				}
			}
		},
		"desksdk.ChatRequest": {
			"type": "object",
			"properties": {
				"prompt": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Session access token. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "StudyDesk API",
	Description:      "Admin back office and student gateway for the StudyDesk tutoring service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
