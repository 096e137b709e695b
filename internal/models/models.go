package models

import "strings"

// Song represents a single generated song suggestion.
//
// Equality for diversity and dedup purposes is case-insensitive and
// whitespace-trimmed on the artist only.
type Song struct {
	Artist string `json:"artist"`
	Track  string `json:"track"`
}

// ArtistKey returns the normalized artist name used for diversity counting.
func (s Song) ArtistKey() string {
	return strings.ToLower(strings.TrimSpace(s.Artist))
}

// PersonalityMode biases the generative model's song selection.
type PersonalityMode string

const (
	ModeDefault      PersonalityMode = "default"
	ModeMainstream   PersonalityMode = "mainstream"
	ModeDiscovery    PersonalityMode = "discovery"
	ModeNostalgia    PersonalityMode = "nostalgia"
	ModeExperimental PersonalityMode = "experimental"
)

// PersonalityModes lists the accepted modes in display order.
var PersonalityModes = []PersonalityMode{
	ModeDefault,
	ModeMainstream,
	ModeDiscovery,
	ModeNostalgia,
	ModeExperimental,
}

// ValidPersonalityMode reports whether mode is one of the accepted values.
//
// Matching is case sensitive: uppercase variants are rejected.
func ValidPersonalityMode(mode string) bool {
	for _, m := range PersonalityModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// PromptRequest is a single song generation request.
//
// Constructed per incoming request, validated once, never persisted.
type PromptRequest struct {
	Prompt          string `json:"prompt"`
	SongCount       int    `json:"songCount"`
	PersonalityMode string `json:"personalityMode"`
}

// ResolvedTrack pairs a song with its catalog URI.
//
// URI is empty when the search yielded no match or the lookup failed;
// an empty URI is not an error for the overall operation.
type ResolvedTrack struct {
	Song Song   `json:"song"`
	URI  string `json:"uri,omitempty"`
}

// PlaylistResult describes a created playlist.
//
// TracksAdded can be less than TotalSongs whenever some songs failed
// resolution or the attach call failed; that is an expected outcome,
// not an error.
type PlaylistResult struct {
	PlaylistID  string `json:"playlistId"`
	PlaylistURL string `json:"playlistUrl"`
	TracksAdded int    `json:"tracksAdded"`
	TotalSongs  int    `json:"totalSongs"`
}
