package oauth2

import "time"

// JSON field names of the token endpoint response.
const (
	FieldAccessToken           = "access_token"
	FieldExpiresIn             = "expires_in"
	FieldRefreshToken          = "refresh_token"
	FieldRefreshTokenExpiresIn = "refresh_token_expires_in"
)

// RequiredTokenFields must all be present for a token response to be accepted.
// A response missing any of them is rejected as a whole.
var RequiredTokenFields = []string{
	FieldAccessToken,
	FieldExpiresIn,
	FieldRefreshToken,
	FieldRefreshTokenExpiresIn,
}

// TokenResponse is the body returned by the provider's token endpoint for both
// the authorization_code and refresh_token grants.
type TokenResponse struct {
	// AccessToken is the bearer credential for resource calls.
	// Usage: "Authorization: Bearer <access_token>"
	// Lifespan: provider defined, about 14 days
	AccessToken string `json:"access_token"`

	// ExpiresIn is the access token lifetime in seconds.
	// Example: 1209600
	ExpiresIn int64 `json:"expires_in"`

	// RefreshToken obtains a new access token without user interaction.
	// Lifespan: provider defined, about 90 days
	RefreshToken string `json:"refresh_token"`

	// RefreshTokenExpiresIn is the refresh token lifetime in seconds.
	// Example: 7776000
	RefreshTokenExpiresIn int64 `json:"refresh_token_expires_in"`
}

// ExpiresAt converts ExpiresIn into an absolute time relative to now.
func (t TokenResponse) ExpiresAt(now time.Time) time.Time {
	return now.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// RefreshTokenExpiresAt converts RefreshTokenExpiresIn into an absolute time relative to now.
func (t TokenResponse) RefreshTokenExpiresAt(now time.Time) time.Time {
	return now.Add(time.Duration(t.RefreshTokenExpiresIn) * time.Second)
}
