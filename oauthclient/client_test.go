package oauthclient_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-oauth-client/oauthclient"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/stretchr/testify/require"
	xoauth2 "golang.org/x/oauth2"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testRedirectURI  = "http://localhost:8080/callback"
	testAuthURL      = "https://provider.example.com/v1/authorize"
)

func testRegistration(tokenURL string) oauthclient.Registration {
	return oauthclient.Registration{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  testRedirectURI,
		Scopes:       []string{"spark:people_read", "spark:rooms_read"},
		Endpoint: xoauth2.Endpoint{
			AuthURL:  testAuthURL,
			TokenURL: tokenURL,
		},
	}
}

func TestNewRequiresRegistration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*oauthclient.Registration)
		want   string
	}{
		{name: "client id", mutate: func(r *oauthclient.Registration) { r.ClientID = "" }, want: "client_id"},
		{name: "client secret", mutate: func(r *oauthclient.Registration) { r.ClientSecret = "" }, want: "client_secret"},
		{name: "redirect uri", mutate: func(r *oauthclient.Registration) { r.RedirectURI = "" }, want: "redirect_uri"},
		{name: "token endpoint", mutate: func(r *oauthclient.Registration) { r.Endpoint.TokenURL = "" }, want: "token_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testRegistration("https://provider.example.com/v1/access_token")
			tt.mutate(&reg)
			_, err := oauthclient.New(reg)
			require.Error(t, err)
			require.True(t, errors.Is(err, oauthmodel.ErrConfiguration))
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAuthorizationURL(t *testing.T) {
	c, err := oauthclient.New(testRegistration("https://provider.example.com/v1/access_token"))
	require.NoError(t, err)

	got := c.AuthorizationURL("state-123")
	require.Equal(t,
		testAuthURL+"?client_id=test-client-1"+
			"&redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fcallback"+
			"&response_type=code"+
			"&scope=spark%3Apeople_read+spark%3Arooms_read"+
			"&state=state-123",
		got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, "spark:people_read spark:rooms_read", u.Query().Get("scope"))
	require.Equal(t, testRedirectURI, u.Query().Get("redirect_uri"))
}

func TestAuthorizationURLDeterministic(t *testing.T) {
	a, err := oauthclient.New(testRegistration("https://provider.example.com/v1/access_token"))
	require.NoError(t, err)
	b, err := oauthclient.New(testRegistration("https://provider.example.com/v1/access_token"))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.Equal(t, a.AuthorizationURL("s"), b.AuthorizationURL("s"))
	}
}

func TestGenerateState(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		s := oauthclient.GenerateState()
		require.Len(t, s, 43) // 32 bytes, unpadded base64url
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}
}

func TestNewStateHonoursFixedState(t *testing.T) {
	reg := testRegistration("https://provider.example.com/v1/access_token")
	c, err := oauthclient.New(reg)
	require.NoError(t, err)
	require.NotEqual(t, c.NewState(), c.NewState())

	reg.FixedState = "fixed"
	c, err = oauthclient.New(reg)
	require.NoError(t, err)
	require.Equal(t, "fixed", c.NewState())
}

func TestStatesEqual(t *testing.T) {
	require.True(t, oauthclient.StatesEqual("abc", "abc"))
	require.False(t, oauthclient.StatesEqual("abc", "abd"))
	require.False(t, oauthclient.StatesEqual("abc", "abcd"))
	require.False(t, oauthclient.StatesEqual("", ""))
}
