// Package common contains shared constants and error kinds used across the
// urchin client layers.
package common

const (
	// SessionTokenHeaderName carries the session token on authenticated
	// requests and on the login response.
	SessionTokenHeaderName = "x-tidepool-session-token"

	// AuthorizationHeaderName carries Basic credentials on the login call.
	AuthorizationHeaderName = "Authorization"
)
