// Package common contains constants shared by the client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "

	// RequestIDHeaderName correlates a client call with server logs.
	RequestIDHeaderName = "X-Request-ID"
)

// Credential store keys. The two values are written independently.
const (
	TokenKey = "token"
	UserKey  = "user"
)
