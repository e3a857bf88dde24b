package resource

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
)

// Profile is the subset of the /people/me response shown after login.
type Profile struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Emails      []string `json:"emails"`
	Avatar      string   `json:"avatar"`
}

// Profile looks up the user the token was issued to.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	body, err := c.fetch(ctx, c.endpoints.People, token, []string{"displayName"})
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, oauthmodel.NewMalformedResponse(err)
	}
	return &p, nil
}
