package oauthclient

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	xoauth2 "golang.org/x/oauth2"
)

// Endpoints are the provider URLs learnt from an OpenID Connect discovery document.
type Endpoints struct {
	Endpoint      xoauth2.Endpoint
	EndSessionURL string
}

// Discover reads the issuer's discovery document. The issuer in the document
// must match the one requested.
func Discover(ctx context.Context, issuer string) (Endpoints, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return Endpoints{}, fmt.Errorf("[oauthclient Discover] %s: %w", issuer, err)
	}

	var extra struct {
		EndSessionURL string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&extra); err != nil {
		return Endpoints{}, fmt.Errorf("[oauthclient Discover] decoding claims: %w", err)
	}

	return Endpoints{
		Endpoint:      provider.Endpoint(),
		EndSessionURL: extra.EndSessionURL,
	}, nil
}
