package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"moodlist/internal/shared"
)

// recordingTransport serves one canned response and captures the request.
type recordingTransport struct {
	status  int
	body    string
	request *http.Request
	reqBody []byte
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.request = req
	if req.Body != nil {
		rt.reqBody, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: rt.status,
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestService(t *testing.T, rt http.RoundTripper) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
	}, 1000)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.httpClient = &http.Client{Transport: rt}
	return srv
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		srv, err := NewSpotifyService(shared.SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURI:  "http://localhost:9999/cb",
		}, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.config.RedirectURL != "http://localhost:9999/cb" {
			t.Errorf("unexpected redirect URI %s", srv.config.RedirectURL)
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		_, err := NewSpotifyService(shared.SpotifyConfig{ClientSecret: "s"}, 0)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "c"}, 0)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Default Redirect URI", func(t *testing.T) {
		srv, err := NewSpotifyService(shared.SpotifyConfig{
			ClientID:     "c",
			ClientSecret: "s",
		}, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.config.RedirectURL != "http://localhost:8888/api/auth/callback" {
			t.Errorf("unexpected default redirect URI %s", srv.config.RedirectURL)
		}
	})
}

func TestGetAuthURL(t *testing.T) {
	srv, err := NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
	}, 0)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	authURL := srv.GetAuthURL("test_state")
	if !strings.Contains(authURL, "accounts.spotify.com") {
		t.Error("auth URL should contain Spotify domain")
	}
	if !strings.Contains(authURL, "test_client_id") {
		t.Error("auth URL should contain client_id")
	}
	if !strings.Contains(authURL, "test_state") {
		t.Error("auth URL should contain state")
	}
	if !strings.Contains(authURL, "playlist-modify-private") {
		t.Error("auth URL should request the playlist scope")
	}
}

func TestCurrentUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		rt := &recordingTransport{status: 200, body: `{"id":"user123","display_name":"Tester"}`}
		srv := newTestService(t, rt)

		user, err := srv.CurrentUser(context.Background(), "token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "user123" {
			t.Errorf("unexpected user %+v", user)
		}
		if rt.request.URL.Path != "/v1/me" {
			t.Errorf("unexpected path %s", rt.request.URL.Path)
		}
		if rt.request.Header.Get("Authorization") != "Bearer token" {
			t.Error("missing bearer header")
		}
	})

	t.Run("Empty Token", func(t *testing.T) {
		srv := newTestService(t, &recordingTransport{status: 200, body: `{}`})

		_, err := srv.CurrentUser(context.Background(), "")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("API Error Status", func(t *testing.T) {
		srv := newTestService(t, &recordingTransport{status: 401, body: `{"error":"expired"}`})

		_, err := srv.CurrentUser(context.Background(), "token")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSearchTrack(t *testing.T) {
	t.Run("Match Found", func(t *testing.T) {
		rt := &recordingTransport{status: 200, body: `{"tracks":{"items":[{"id":"t1","name":"Song","uri":"spotify:track:t1"}]}}`}
		srv := newTestService(t, rt)

		uri, err := srv.SearchTrack(context.Background(), "token", "Radiohead", "No Surprises")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if uri != "spotify:track:t1" {
			t.Errorf("unexpected URI %s", uri)
		}

		query := rt.request.URL.Query()
		if query.Get("q") != "artist:Radiohead track:No Surprises" {
			t.Errorf("unexpected query %q", query.Get("q"))
		}
		if query.Get("type") != "track" || query.Get("limit") != "1" {
			t.Errorf("unexpected search parameters %v", query)
		}
	})

	t.Run("No Match Is Not An Error", func(t *testing.T) {
		rt := &recordingTransport{status: 200, body: `{"tracks":{"items":[]}}`}
		srv := newTestService(t, rt)

		uri, err := srv.SearchTrack(context.Background(), "token", "Nobody", "Nothing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if uri != "" {
			t.Errorf("expected empty URI, got %s", uri)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("Posts To Owner Collection", func(t *testing.T) {
		rt := &recordingTransport{status: 201, body: `{"id":"pl1","name":"Mix","external_urls":{"spotify":"https://open.spotify.com/playlist/pl1"}}`}
		srv := newTestService(t, rt)

		playlist, err := srv.CreatePlaylist(context.Background(), "token", "user123", "Mix", "desc", false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "pl1" {
			t.Errorf("unexpected playlist %+v", playlist)
		}
		if rt.request.URL.Path != "/v1/users/user123/playlists" {
			t.Errorf("unexpected path %s", rt.request.URL.Path)
		}

		var body map[string]any
		if err := json.Unmarshal(rt.reqBody, &body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body["name"] != "Mix" || body["public"] != false {
			t.Errorf("unexpected request body %v", body)
		}
	})
}

func TestAddTracks(t *testing.T) {
	t.Run("Single Batch", func(t *testing.T) {
		rt := &recordingTransport{status: 201, body: `{"snapshot_id":"snap"}`}
		srv := newTestService(t, rt)

		uris := []string{"spotify:track:a", "spotify:track:b"}
		if err := srv.AddTracks(context.Background(), "token", "pl1", uris); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if rt.request.URL.Path != "/v1/playlists/pl1/tracks" {
			t.Errorf("unexpected path %s", rt.request.URL.Path)
		}

		var body struct {
			URIs []string `json:"uris"`
		}
		if err := json.Unmarshal(rt.reqBody, &body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if len(body.URIs) != 2 {
			t.Errorf("expected 2 URIs in one batch, got %v", body.URIs)
		}
	})

	t.Run("Empty URIs Skip The Call", func(t *testing.T) {
		rt := &recordingTransport{status: 500, body: ``}
		srv := newTestService(t, rt)

		if err := srv.AddTracks(context.Background(), "token", "pl1", nil); err != nil {
			t.Errorf("expected no call and no error, got %v", err)
		}
		if rt.request != nil {
			t.Error("no HTTP request expected for empty URI list")
		}
	})
}
