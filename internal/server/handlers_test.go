package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodlist/internal/services"
	"moodlist/internal/shared"
	"moodlist/internal/tasks"
)

type stubGenerator struct {
	reply string
	calls int
}

func (s *stubGenerator) Complete(ctx context.Context, prompt string, songCount int) (string, error) {
	s.calls++
	return s.reply, nil
}

type stubCatalog struct {
	uris      map[string]string
	addedURIs []string
}

func (s *stubCatalog) CurrentUser(ctx context.Context, token string) (*services.SpotifyUser, error) {
	return &services.SpotifyUser{ID: "user123"}, nil
}

func (s *stubCatalog) SearchTrack(ctx context.Context, token, artist, track string) (string, error) {
	return s.uris[artist+"|"+track], nil
}

func (s *stubCatalog) CreatePlaylist(ctx context.Context, token, userID, name, description string, public bool) (*services.SpotifyPlaylist, error) {
	return &services.SpotifyPlaylist{
		ID:           "pl1",
		Name:         name,
		ExternalURLs: services.ExternalURLs{Spotify: "https://open.spotify.com/playlist/pl1"},
	}, nil
}

func (s *stubCatalog) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	s.addedURIs = append([]string{}, uris...)
	return nil
}

func newTestHandler(t *testing.T, gen *stubGenerator, cat *stubCatalog) *APIHandler {
	t.Helper()

	opts := tasks.EngineOpts{}
	if gen != nil {
		opts.Generator = gen
	}
	if cat != nil {
		opts.Catalog = cat
	}
	engine := tasks.NewPlaylistEngine(opts)

	spotify, err := services.NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
	}, 0)
	if err != nil {
		t.Fatalf("failed to create spotify service: %v", err)
	}

	return NewAPIHandler(engine, spotify, nil)
}

func withToken(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "spotify_access_token", Value: "token-abcdef1234"})
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("Login Redirects To Spotify", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		location := rec.Header().Get("Location")
		if !strings.Contains(location, "accounts.spotify.com") {
			t.Errorf("expected redirect to Spotify, got %s", location)
		}
		if !strings.Contains(location, "state=") {
			t.Errorf("expected state parameter, got %s", location)
		}
	})

	t.Run("Callback With Provider Error Redirects Home", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback?error=access_denied", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if rec.Header().Get("Location") != "/?error=auth_denied" {
			t.Errorf("unexpected redirect %s", rec.Header().Get("Location"))
		}
	})

	t.Run("Callback Without Code Redirects Home", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback", nil))

		if rec.Header().Get("Location") != "/?error=missing_code" {
			t.Errorf("unexpected redirect %s", rec.Header().Get("Location"))
		}
	})

	t.Run("Check Without Cookie", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check", nil))

		body := decodeBody(t, rec)
		if body["authenticated"] != false {
			t.Errorf("expected authenticated false, got %v", body)
		}
	})

	t.Run("Check With Cookie", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)))

		body := decodeBody(t, rec)
		if body["authenticated"] != true {
			t.Errorf("expected authenticated true, got %v", body)
		}
	})

	t.Run("Logout Clears Cookies", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		cleared := 0
		for _, cookie := range rec.Result().Cookies() {
			if cookie.MaxAge < 0 && (cookie.Name == "spotify_access_token" || cookie.Name == "spotify_refresh_token") {
				cleared++
			}
		}
		if cleared != 2 {
			t.Errorf("expected both session cookies cleared, got %d", cleared)
		}
	})

	t.Run("Wrong Method Rejected", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestGenerateSongsEndpoint(t *testing.T) {
	post := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/api/generate-songs", strings.NewReader(body))
	}

	t.Run("Unauthenticated", func(t *testing.T) {
		gen := &stubGenerator{reply: "[]"}
		handler := newTestHandler(t, gen, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, post(`{"prompt":"songs for a rainy day"}`))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "Not authenticated with Spotify" {
			t.Errorf("unexpected error message %v", body["error"])
		}
		if gen.calls != 0 {
			t.Error("no model call expected for unauthenticated requests")
		}
	})

	t.Run("Validation Errors Listed", func(t *testing.T) {
		handler := newTestHandler(t, &stubGenerator{reply: "[]"}, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{"prompt":"short","songCount":"ten","personalityMode":"Party"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		errs, ok := body["errors"].([]any)
		if !ok || len(errs) != 3 {
			t.Errorf("expected 3 validation errors, got %v", body)
		}
	})

	t.Run("Defaults Applied", func(t *testing.T) {
		gen := &stubGenerator{reply: `[{"artist":"A","track":"1"}]`}
		handler := newTestHandler(t, gen, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{"prompt":"songs for a rainy day"}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with default count and mode, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Success Shape", func(t *testing.T) {
		gen := &stubGenerator{reply: `[{"artist":"A","track":"1"},{"artist":"B","track":"2"}]`}
		handler := newTestHandler(t, gen, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{"prompt":"songs for a rainy day","songCount":10,"personalityMode":"default"}`)))

		body := decodeBody(t, rec)
		if body["success"] != true {
			t.Errorf("expected success true, got %v", body)
		}
		if body["totalSongs"] != float64(2) {
			t.Errorf("expected totalSongs 2, got %v", body["totalSongs"])
		}
		songs, ok := body["songs"].([]any)
		if !ok || len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %v", body["songs"])
		}
		first := songs[0].(map[string]any)
		if first["artist"] != "A" || first["track"] != "1" {
			t.Errorf("unexpected song shape %v", first)
		}
	})

	t.Run("Generation Failure Is Generic 500", func(t *testing.T) {
		gen := &stubGenerator{reply: "no songs here"}
		handler := newTestHandler(t, gen, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{"prompt":"songs for a rainy day"}`)))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "Failed to generate songs" {
			t.Errorf("expected generic error, got %v", body["error"])
		}
	})

	t.Run("Invalid JSON Body", func(t *testing.T) {
		handler := newTestHandler(t, &stubGenerator{reply: "[]"}, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{not json`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCreatePlaylistEndpoint(t *testing.T) {
	post := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/api/create-playlist", strings.NewReader(body))
	}

	t.Run("Unauthenticated", func(t *testing.T) {
		handler := newTestHandler(t, nil, &stubCatalog{})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, post(`{"songs":[]}`))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("Non-Array Songs Rejected", func(t *testing.T) {
		handler := newTestHandler(t, nil, &stubCatalog{})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{"songs":"not a list"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "Invalid songs data" {
			t.Errorf("unexpected error %v", body["error"])
		}
	})

	t.Run("Success Shape", func(t *testing.T) {
		cat := &stubCatalog{uris: map[string]string{"A|1": "spotify:track:a"}}
		handler := newTestHandler(t, nil, cat)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, withToken(post(`{"songs":[{"artist":"A","track":"1"},{"artist":"B","track":"2"}],"playlistName":"Mix"}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["success"] != true || body["playlistId"] != "pl1" {
			t.Errorf("unexpected body %v", body)
		}
		if body["tracksAdded"] != float64(1) || body["totalSongs"] != float64(2) {
			t.Errorf("unexpected counts %v", body)
		}
		if len(cat.addedURIs) != 1 {
			t.Errorf("expected one URI attached, got %v", cat.addedURIs)
		}
	})
}
