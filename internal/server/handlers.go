package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"moodlist/internal/models"
	"moodlist/internal/services"
	"moodlist/internal/shared"
	"moodlist/internal/tasks"
)

// APIHandler serves the JSON API for authentication, song generation, and
// playlist creation.
//
// Client-facing errors are kept generic; failure detail is only logged.
type APIHandler struct {
	engine  *tasks.PlaylistEngine
	catalog *services.SpotifyService
	logger  *log.Logger
}

// NewAPIHandler creates an APIHandler with the given collaborators.
func NewAPIHandler(engine *tasks.PlaylistEngine, catalog *services.SpotifyService, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &APIHandler{engine: engine, catalog: catalog, logger: logger}
}

// Routes returns the path patterns this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{
		"/api/auth/login",
		"/api/auth/callback",
		"/api/auth/check",
		"/api/auth/logout",
		"/api/generate-songs",
		"/api/create-playlist",
	}
}

// ServeHTTP dispatches to the endpoint handlers by path and method.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/login":
		h.requireMethod(w, r, http.MethodGet, h.handleLogin)
	case "/api/auth/callback":
		h.requireMethod(w, r, http.MethodGet, h.handleCallback)
	case "/api/auth/check":
		h.requireMethod(w, r, http.MethodGet, h.handleCheck)
	case "/api/auth/logout":
		h.requireMethod(w, r, http.MethodPost, h.handleLogout)
	case "/api/generate-songs":
		h.requireMethod(w, r, http.MethodPost, h.handleGenerateSongs)
	case "/api/create-playlist":
		h.requireMethod(w, r, http.MethodPost, h.handleCreatePlaylist)
	default:
		http.NotFound(w, r)
	}
}

func (h *APIHandler) requireMethod(w http.ResponseWriter, r *http.Request, method string, next http.HandlerFunc) {
	if r.Method != method {
		h.writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
		return
	}
	next(w, r)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// handleLogin redirects the browser to Spotify's authorization page.
func (h *APIHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := shared.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate OAuth state", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to start authentication"})
		return
	}

	http.Redirect(w, r, h.catalog.GetAuthURL(state), http.StatusFound)
}

// handleCallback exchanges the authorization code for tokens and stores them
// as session cookies before redirecting back to the app.
func (h *APIHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if authErr := query.Get("error"); authErr != "" {
		h.logger.Warn("authorization denied", "error", authErr)
		http.Redirect(w, r, "/?error=auth_denied", http.StatusFound)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Redirect(w, r, "/?error=missing_code", http.StatusFound)
		return
	}

	token, err := h.catalog.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	setSessionCookies(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleCheck reports whether the caller carries an access token cookie.
func (h *APIHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": sessionToken(r) != "",
	})
}

// handleLogout clears the session cookies.
func (h *APIHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookies(w)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// generateRequest carries the raw, untyped generation inputs.
//
// Fields stay as any so the validator can report type violations with the
// same messages regardless of what the client sent.
type generateRequest struct {
	Prompt          any `json:"prompt"`
	SongCount       any `json:"songCount"`
	PersonalityMode any `json:"personalityMode"`
}

// handleGenerateSongs runs the generation pipeline for the session caller.
func (h *APIHandler) handleGenerateSongs(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Not authenticated with Spotify"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	if req.SongCount == nil {
		req.SongCount = 20
	}
	if req.PersonalityMode == nil {
		req.PersonalityMode = string(models.ModeDefault)
	}

	result, err := h.engine.GenerateSongs(r.Context(), token, req.Prompt, req.SongCount, req.PersonalityMode, nil)
	if err != nil {
		if verr, ok := tasks.AsValidationError(err); ok {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Errors})
			return
		}
		h.logger.Error("song generation failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to generate songs"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"songs":      result.Songs,
		"totalSongs": result.TotalSongs,
	})
}

// createPlaylistRequest carries the playlist creation inputs. Songs stays
// untyped so a non-array payload can be rejected explicitly.
type createPlaylistRequest struct {
	Songs        any    `json:"songs"`
	PlaylistName string `json:"playlistName"`
}

// handleCreatePlaylist creates a playlist from a client-supplied song list.
func (h *APIHandler) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Not authenticated with Spotify"})
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	songs, ok := decodeSongs(req.Songs)
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid songs data"})
		return
	}

	result, err := h.engine.CreatePlaylist(r.Context(), token, songs, req.PlaylistName, nil)
	if err != nil {
		h.logger.Error("playlist creation failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to create playlist"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"playlistId":  result.PlaylistID,
		"playlistUrl": result.PlaylistURL,
		"tracksAdded": result.TracksAdded,
		"totalSongs":  result.TotalSongs,
	})
}

// decodeSongs converts an untyped songs payload into a song slice.
//
// Returns false unless the payload is an array. Entries missing artist or
// track are skipped rather than failing the whole request.
func decodeSongs(raw any) ([]models.Song, bool) {
	entries, ok := raw.([]any)
	if !ok {
		return nil, false
	}

	songs := make([]models.Song, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		artist, _ := obj["artist"].(string)
		track, _ := obj["track"].(string)
		if artist == "" || track == "" {
			continue
		}
		songs = append(songs, models.Song{Artist: artist, Track: track})
	}

	return songs, true
}
