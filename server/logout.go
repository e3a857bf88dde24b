package server

import (
	"fmt"
	"net/url"
	"strings"
)

// RootURL strips the callback path off the redirect URI, leaving the
// application's root with a trailing slash.
func RootURL(redirectURI string) string {
	root := strings.TrimSuffix(redirectURI, RouteCallback)
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// LogoutURL builds <logoutEndpoint>?goto=<root>&token=<token>. Query parameters
// already on the endpoint are kept.
func LogoutURL(logoutEndpoint, redirectURI, token string) (string, error) {
	u, err := url.Parse(logoutEndpoint)
	if err != nil {
		return "", fmt.Errorf("[server LogoutURL] parsing %q: %w", logoutEndpoint, err)
	}
	q := u.Query()
	q.Set("goto", RootURL(redirectURI))
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
