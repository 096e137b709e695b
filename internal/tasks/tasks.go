// package tasks implements the prompt-to-playlist orchestration pipeline.
//
// The core abstraction is [PlaylistEngine], which validates input, composes a
// model instruction, parses the untrusted reply into a song list, and
// reconciles that list against the music catalog. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"moodlist/internal/llm"
	"moodlist/internal/memory"
	"moodlist/internal/models"
	"moodlist/internal/services"
	"moodlist/internal/shared"
	"moodlist/internal/validate"
)

const (
	defaultPlaylistName = "AI Generated Playlist"
)

// ValidationError carries the full list of input-contract violations.
//
// It unwraps to [shared.ErrValidation] so callers can branch on the class
// while still reporting every distinct message.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", shared.ErrValidation, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error {
	return shared.ErrValidation
}

// AsValidationError extracts a *ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// GenerateResult contains the outcome of a song generation operation.
type GenerateResult struct {
	Songs      []models.Song   // Validated, diversity-filtered songs
	TotalSongs int             // len(Songs)
	Method     llm.ParseMethod // Which parser fallback produced the list
}

// PlaylistEngine orchestrates song generation and playlist creation.
//
// Constructed once per process with injected collaborators so the pipeline is
// testable in isolation from the transport layer.
type PlaylistEngine struct {
	generator    llm.Generator
	catalog      services.Catalog
	history      *memory.Store
	validator    *validate.Validator
	logger       *log.Logger
	maxPerArtist int
}

// EngineOpts contains dependencies and configuration for a PlaylistEngine.
type EngineOpts struct {
	Generator    llm.Generator
	Catalog      services.Catalog
	History      *memory.Store
	Validator    *validate.Validator
	Logger       *log.Logger
	MaxPerArtist int
}

// NewPlaylistEngine creates a PlaylistEngine with the provided dependencies.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.History == nil {
		opts.History = memory.NewStore(0, 0)
	}
	if opts.Validator == nil {
		opts.Validator = validate.New(opts.Logger)
	}
	if opts.MaxPerArtist <= 0 {
		opts.MaxPerArtist = DefaultMaxPerArtist
	}

	return &PlaylistEngine{
		generator:    opts.Generator,
		catalog:      opts.Catalog,
		history:      opts.History,
		validator:    opts.Validator,
		logger:       opts.Logger,
		maxPerArtist: opts.MaxPerArtist,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// GenerateSongs runs the full generation pipeline: validate, compose, call
// the generative collaborator, parse, filter, and record history.
//
// The prompt, song count, and personality mode arrive as unchecked values so
// the validator can report type violations alongside range violations. No
// external call is made for unauthenticated callers or invalid input.
func (e *PlaylistEngine) GenerateSongs(ctx context.Context, token string, prompt, songCount, personalityMode any, progress chan<- ProgressUpdate) (*GenerateResult, error) {
	if e.generator == nil {
		return nil, fmt.Errorf("%w: generator not initialized", shared.ErrServiceUnavailable)
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	result := e.validator.Validate(prompt, songCount, personalityMode)
	if !result.Valid {
		return nil, &ValidationError{Errors: result.Errors}
	}
	req := result.Request

	callerKey := memory.CallerKeyFromToken(token)
	prior := e.history.History(callerKey)
	e.sendProgress(progress, composingUpdate(len(prior)))

	instruction := llm.Compose(req.PersonalityMode, req.SongCount, req.Prompt, prior)

	e.sendProgress(progress, generatingUpdate(req.SongCount))
	raw, err := e.generator.Complete(ctx, instruction, req.SongCount)
	if err != nil {
		e.logger.Error("completion call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrGenerationFailed, err)
	}

	parsed, err := llm.ParseSongList(raw)
	if err != nil {
		e.logger.Error("failed to parse model response", "error", err, "raw_length", len(raw))
		return nil, err
	}

	songs := EnforceArtistDiversity(parsed.Songs, e.maxPerArtist)
	e.sendProgress(progress, parsedUpdate(len(parsed.Songs), len(songs)))
	e.logger.Info("generated songs",
		"parsed", len(parsed.Songs),
		"kept", len(songs),
		"method", parsed.Method.String(),
		"mode", req.PersonalityMode,
	)

	e.history.Record(callerKey, songs)

	return &GenerateResult{
		Songs:      songs,
		TotalSongs: len(songs),
		Method:     parsed.Method,
	}, nil
}

// ResolveTracks maps each song to a catalog URI via search.
//
// Resolution is strictly sequential in input order to keep rate-limit
// exposure predictable. Per-song failures are isolated: a failed or empty
// lookup yields an empty URI and never prevents resolution of later songs.
func (e *PlaylistEngine) ResolveTracks(ctx context.Context, token string, songs []models.Song, progress chan<- ProgressUpdate) []models.ResolvedTrack {
	resolved := make([]models.ResolvedTrack, len(songs))

	for i, song := range songs {
		e.sendProgress(progress, searchTrackUpdate(i+1, len(songs), song))

		uri, err := e.catalog.SearchTrack(ctx, token, song.Artist, song.Track)
		if err != nil {
			e.logger.Warn("track search failed", "artist", song.Artist, "track", song.Track, "error", err)
			uri = ""
		}
		if uri == "" && err == nil {
			e.logger.Debug("song not found", "artist", song.Artist, "track", song.Track)
		}

		resolved[i] = models.ResolvedTrack{Song: song, URI: uri}
	}

	return resolved
}

// CreatePlaylist creates a playlist container, resolves the songs against the
// catalog, and attaches the matches in one batch call.
//
// Container creation failure is fatal. A failed attach call is partial
// success: the playlist is still reported as created with zero tracks added.
func (e *PlaylistEngine) CreatePlaylist(ctx context.Context, token string, songs []models.Song, name string, progress chan<- ProgressUpdate) (*models.PlaylistResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	e.sendProgress(progress, fetchProfileUpdate())
	user, err := e.catalog.CurrentUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreateFailed, err)
	}

	if name == "" {
		name = defaultPlaylistName
	}
	description := fmt.Sprintf("AI generated playlist with %d songs", len(songs))

	e.sendProgress(progress, createPlaylistUpdate(name))
	playlist, err := e.catalog.CreatePlaylist(ctx, token, user.ID, name, description, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreateFailed, err)
	}

	resolved := e.ResolveTracks(ctx, token, songs, progress)

	uris := make([]string, 0, len(resolved))
	for _, rt := range resolved {
		if rt.URI != "" {
			uris = append(uris, rt.URI)
		}
	}

	tracksAdded := 0
	if len(uris) > 0 {
		e.sendProgress(progress, attachTracksUpdate(len(uris)))
		if err := e.catalog.AddTracks(ctx, token, playlist.ID, uris); err != nil {
			// Partial success: the container exists even when the attach fails.
			attachErr := fmt.Errorf("%w: %v", shared.ErrTrackAttachFailed, err)
			e.logger.Warn("playlist left without tracks", "playlist_id", playlist.ID, "error", attachErr)
		} else {
			tracksAdded = len(uris)
		}
	}

	e.logger.Info("playlist created",
		"playlist_id", playlist.ID,
		"tracks_added", tracksAdded,
		"total_songs", len(songs),
	)

	return &models.PlaylistResult{
		PlaylistID:  playlist.ID,
		PlaylistURL: playlist.ExternalURLs.Spotify,
		TracksAdded: tracksAdded,
		TotalSongs:  len(songs),
	}, nil
}
