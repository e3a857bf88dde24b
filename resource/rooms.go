package resource

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
)

type Room struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	LastActivity string `json:"lastActivity"`
}

type RoomList struct {
	Items []Room `json:"items"`
}

// Rooms lists the rooms the token's user is a member of.
func (c *Client) Rooms(ctx context.Context, token string) (*RoomList, error) {
	body, err := c.fetch(ctx, c.endpoints.Rooms, token, []string{"items"})
	if err != nil {
		return nil, err
	}
	var rooms RoomList
	if err := json.Unmarshal(body, &rooms); err != nil {
		return nil, oauthmodel.NewMalformedResponse(err)
	}
	return &rooms, nil
}
