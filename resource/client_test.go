package resource_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-oauth-client/oauthmodel"
	"github.com/jrsteele09/go-oauth-client/resource"
	"github.com/stretchr/testify/require"
)

const testToken = "T1"

// newResourceServer serves fixed bodies per path and rejects calls without the test bearer token.
func newResourceServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *resource.Client {
	return resource.New(resource.Endpoints{
		People: srv.URL + "/people/me",
		Rooms:  srv.URL + "/rooms",
	})
}

func TestGetJSON(t *testing.T) {
	srv := newResourceServer(t, map[string]string{"/people/me": `{"displayName":"Jane Doe","id":"p1"}`})
	c := newTestClient(srv)

	doc, err := c.GetJSON(context.Background(), srv.URL+"/people/me", testToken, "displayName")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", doc["displayName"])
}

func TestGetJSONFailures(t *testing.T) {
	srv := newResourceServer(t, map[string]string{
		"/people/me": `{"id":"p1"}`,
		"/broken":    `not json`,
	})
	c := newTestClient(srv)
	ctx := context.Background()

	_, err := c.GetJSON(ctx, srv.URL+"/people/me", testToken, "displayName")
	require.True(t, errors.Is(err, oauthmodel.ErrMalformedResponse), "got %v", err)

	_, err = c.GetJSON(ctx, srv.URL+"/broken", testToken)
	require.True(t, errors.Is(err, oauthmodel.ErrMalformedResponse), "got %v", err)

	_, err = c.GetJSON(ctx, srv.URL+"/people/me", "wrong-token", "displayName")
	require.True(t, errors.Is(err, oauthmodel.ErrUnexpectedStatus), "got %v", err)
	var oerr *oauthmodel.Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusUnauthorized, oerr.StatusCode)

	_, err = c.GetJSON(ctx, srv.URL+"/missing", testToken)
	require.True(t, errors.Is(err, oauthmodel.ErrUnexpectedStatus), "got %v", err)
}

func TestGetJSONNetworkError(t *testing.T) {
	srv := newResourceServer(t, nil)
	endpoint := srv.URL + "/people/me"
	srv.Close()

	_, err := newTestClient(srv).GetJSON(context.Background(), endpoint, testToken)
	require.True(t, errors.Is(err, oauthmodel.ErrNetwork), "got %v", err)
}

func TestGetJSONTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := resource.New(resource.Endpoints{}, resource.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := c.GetJSON(context.Background(), srv.URL, testToken)
	require.True(t, errors.Is(err, oauthmodel.ErrNetwork), "got %v", err)
}

func TestProfile(t *testing.T) {
	srv := newResourceServer(t, map[string]string{
		"/people/me": `{"id":"p1","displayName":"Jane Doe","emails":["jane@example.com"]}`,
	})

	p, err := newTestClient(srv).Profile(context.Background(), testToken)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", p.DisplayName)
	require.Equal(t, []string{"jane@example.com"}, p.Emails)
}

func TestProfileMissingDisplayName(t *testing.T) {
	srv := newResourceServer(t, map[string]string{"/people/me": `{"id":"p1"}`})

	_, err := newTestClient(srv).Profile(context.Background(), testToken)
	require.True(t, errors.Is(err, oauthmodel.ErrMalformedResponse), "got %v", err)
}

func TestRooms(t *testing.T) {
	srv := newResourceServer(t, map[string]string{
		"/rooms": `{"items":[{"id":"r1","title":"Standup","type":"group"},{"id":"r2","title":"Jane","type":"direct"}]}`,
	})

	rooms, err := newTestClient(srv).Rooms(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, rooms.Items, 2)
	require.Equal(t, "Standup", rooms.Items[0].Title)
}

func TestRoomsMissingItems(t *testing.T) {
	srv := newResourceServer(t, map[string]string{"/rooms": `{"rooms":[]}`})

	_, err := newTestClient(srv).Rooms(context.Background(), testToken)
	require.True(t, errors.Is(err, oauthmodel.ErrMalformedResponse), "got %v", err)
}
