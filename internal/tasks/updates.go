package tasks

import (
	"fmt"

	"moodlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ComposePrompt Phase = iota
	GenerateSongs
	ParseResponse
	FilterSongs
	FetchProfile
	CreatePlaylist
	SearchTracks
	AttachTracks
)

func (p Phase) String() string {
	switch p {
	case ComposePrompt:
		return "compose_prompt"
	case GenerateSongs:
		return "generate_songs"
	case ParseResponse:
		return "parse_response"
	case FilterSongs:
		return "filter_songs"
	case FetchProfile:
		return "fetch_profile"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case AttachTracks:
		return "attach_tracks"
	default:
		return ""
	}
}

func composingUpdate(historyLen int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ComposePrompt,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Composing instruction (%d prior songs on record)...", historyLen),
	}
}

func generatingUpdate(songCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateSongs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Asking the model for %d songs...", songCount),
	}
}

func parsedUpdate(parsed, kept int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterSongs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Parsed %d songs, kept %d after diversity filtering", parsed, kept),
	}
}

func fetchProfileUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    1,
		Total:   1,
		Message: "Fetching Spotify profile...",
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func searchTrackUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, song.Artist, song.Track),
	}
}

func attachTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AttachTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to playlist...", count),
	}
}
