package llm

import (
	"fmt"
	"strings"

	"moodlist/internal/models"
)

// avoidanceWindow bounds how many prior songs are listed in the avoidance clause.
const avoidanceWindow = 20

const baseInstructionFormat = `You are an assistant that only responds in JSON. Create a list of %d unique songs based off the following statement. Respond with a JSON array of objects that have exactly "artist" and "track" fields. Do not include any other fields, surrounding prose, or markdown code fences. IMPORTANT: Ensure variety by limiting to maximum 2 songs per artist. An example response is:
[
  {
    "artist": "The Beatles",
    "track": "Hey Jude"
  },
  {
    "artist": "Queen",
    "track": "Bohemian Rhapsody"
  }
]`

// modeDirectives maps each personality mode to its style directive.
var modeDirectives = map[models.PersonalityMode]string{
	models.ModeDefault:      "Create a well-rounded playlist with a good mix of popular hits, hidden gems, classic tracks, and contemporary songs.",
	models.ModeMainstream:   "Focus on popular hits, chart-toppers, and well-known songs that most people would recognize.",
	models.ModeDiscovery:    "Focus on lesser-known tracks, hidden gems, and songs that music enthusiasts would appreciate but aren't mainstream hits.",
	models.ModeNostalgia:    "Focus on classic hits from past decades, timeless songs, and nostalgic favorites from the 1950s through 2000s.",
	models.ModeExperimental: "Focus on unique, innovative sounds, experimental music, and genre-blending tracks that push musical boundaries.",
}

// Instruction builds the mode-directed base instruction for the model.
//
// Unknown modes fall back to the neutral base instruction. This should not
// occur when the validator ran first.
func Instruction(personalityMode string, songCount int) string {
	base := fmt.Sprintf(baseInstructionFormat, songCount)

	directive, ok := modeDirectives[models.PersonalityMode(personalityMode)]
	if !ok {
		return base
	}

	return base + " " + directive
}

// AvoidanceClause builds the cross-prompt repetition avoidance instruction
// from the caller's prior songs, listing at most the most recent
// [avoidanceWindow] entries.
//
// Returns the empty string when there is no history. The clause is advisory
// to the model; actual duplicate suppression is not guaranteed by this step.
func AvoidanceClause(priorSongs []models.Song) string {
	if len(priorSongs) == 0 {
		return ""
	}

	recent := priorSongs
	if len(recent) > avoidanceWindow {
		recent = recent[len(recent)-avoidanceWindow:]
	}

	entries := make([]string, len(recent))
	for i, song := range recent {
		entries[i] = fmt.Sprintf("%q by %s", song.Track, song.Artist)
	}

	return fmt.Sprintf("\n\nIMPORTANT: To ensure maximum variety, please avoid using more than 5%% of these recently generated songs: %s. Focus on different artists, decades, sub-genres, or musical styles. Prioritize diversity over similarity to previous recommendations.", strings.Join(entries, ", "))
}

// Compose assembles the full instruction sent to the model: the mode-directed
// base instruction, the sanitized user prompt, and the avoidance clause.
func Compose(personalityMode string, songCount int, prompt string, priorSongs []models.Song) string {
	return fmt.Sprintf("%s %q.%s", Instruction(personalityMode, songCount), prompt, AvoidanceClause(priorSongs))
}
