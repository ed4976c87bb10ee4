package common

// Header names the vendor backend expects on authenticated requests.
const (
	AuthTokenHeaderName = "x-token-auth"
	UserIDHeaderName    = "x-user-id"
)
