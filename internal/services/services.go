// package services defines interface Catalog for the external music catalog (Spotify).
package services

import (
	"context"
)

// Catalog defines the music catalog operations consumed by the playlist
// pipeline. Every call takes the caller's bearer credential so one client
// instance can serve concurrent requests for different users.
type Catalog interface {
	// CurrentUser retrieves the authenticated user's profile ("who am I").
	CurrentUser(ctx context.Context, token string) (*SpotifyUser, error)

	// SearchTrack queries the catalog's search endpoint for an artist/track
	// pair, requesting at most one result. Returns the best match's URI, or
	// the empty string when the search yields no match. A request failure is
	// returned as an error; callers decide whether it is fatal.
	SearchTrack(ctx context.Context, token, artist, track string) (string, error)

	// CreatePlaylist creates a playlist container under the owner's account.
	CreatePlaylist(ctx context.Context, token, userID, name, description string, public bool) (*SpotifyPlaylist, error)

	// AddTracks attaches track URIs to an existing playlist in one batch call.
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error
}
