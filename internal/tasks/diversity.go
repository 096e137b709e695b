package tasks

import (
	"moodlist/internal/models"
)

// DefaultMaxPerArtist is the diversity cap applied to generated lists.
const DefaultMaxPerArtist = 2

// EnforceArtistDiversity filters songs so no artist appears more than
// maxPerArtist times, preserving original relative order.
//
// The pass is a single left-to-right greedy scan over a running count per
// case-insensitive, trimmed artist key: first-seen songs per artist always
// win over later ones, with no rebalancing. A maximum of 0 yields an empty
// result.
func EnforceArtistDiversity(songs []models.Song, maxPerArtist int) []models.Song {
	counts := make(map[string]int, len(songs))
	kept := make([]models.Song, 0, len(songs))

	for _, song := range songs {
		key := song.ArtistKey()
		if counts[key] < maxPerArtist {
			counts[key]++
			kept = append(kept, song)
		}
	}

	return kept
}
