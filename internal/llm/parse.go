package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"moodlist/internal/models"
	"moodlist/internal/shared"
)

// ParseMethod identifies which fallback produced a song list.
type ParseMethod int

const (
	// ParseStrict means the reply contained a JSON array that parsed cleanly.
	ParseStrict ParseMethod = iota
	// ParseFragments means the list was rebuilt from object-shaped fragments
	// found by pattern matching across the text.
	ParseFragments
)

func (m ParseMethod) String() string {
	switch m {
	case ParseStrict:
		return "strict"
	case ParseFragments:
		return "fragments"
	default:
		return ""
	}
}

// ParseResult is the typed outcome of coercing model output into a song list.
type ParseResult struct {
	Songs  []models.Song
	Method ParseMethod
}

var (
	openFence  = regexp.MustCompile("^```(?:json)?[ \t]*\n?")
	closeFence = regexp.MustCompile("\n?```[ \t]*$")

	objectFragment = regexp.MustCompile(`\{[^{}]*\}`)
	artistField    = regexp.MustCompile(`"artist"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	trackField     = regexp.MustCompile(`"track"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// ParseSongList extracts a song list from the raw text returned by the
// generative model, tolerating markdown fences and surrounding prose.
//
// Fallbacks are attempted in order: fence stripping, bracket slicing, strict
// JSON parse, fragment extraction. Failures are distinguished:
// [shared.ErrResponseUnparseable] when no songs could be extracted at all,
// [shared.ErrResponseMalformed] when the text parsed but was not an array or
// yielded zero valid songs.
func ParseSongList(raw string) (*ParseResult, error) {
	text := strings.TrimSpace(raw)
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	// Tolerate explanatory prose around a JSON array.
	candidate := text
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		candidate = text[start : end+1]
	}

	var parsed any
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	// Trailing content after the first value disqualifies a strict parse.
	if err := dec.Decode(&parsed); err == nil && !dec.More() {
		arr, ok := parsed.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: top-level value is not an array", shared.ErrResponseMalformed)
		}

		songs := normalizeEntries(arr)
		if len(songs) == 0 {
			return nil, fmt.Errorf("%w: no valid songs in array of %d entries", shared.ErrResponseMalformed, len(arr))
		}

		return &ParseResult{Songs: songs, Method: ParseStrict}, nil
	}

	songs := extractFragments(text)
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no song list found in %d characters of text", shared.ErrResponseUnparseable, len(raw))
	}

	return &ParseResult{Songs: songs, Method: ParseFragments}, nil
}

// normalizeEntries keeps only entries with non-empty artist and track after
// coercion to trimmed strings. Extra fields such as album or id are dropped.
func normalizeEntries(arr []any) []models.Song {
	songs := make([]models.Song, 0, len(arr))
	for _, entry := range arr {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		artist := coerceString(obj["artist"])
		track := coerceString(obj["track"])
		if artist == "" || track == "" {
			continue
		}

		songs = append(songs, models.Song{Artist: artist, Track: track})
	}
	return songs
}

// extractFragments rebuilds a song list from {"artist": …, "track": …}-shaped
// fragments scattered through the text.
func extractFragments(text string) []models.Song {
	var songs []models.Song
	for _, fragment := range objectFragment.FindAllString(text, -1) {
		artistMatch := artistField.FindStringSubmatch(fragment)
		trackMatch := trackField.FindStringSubmatch(fragment)
		if artistMatch == nil || trackMatch == nil {
			continue
		}

		artist := strings.TrimSpace(unescapeJSONString(artistMatch[1]))
		track := strings.TrimSpace(unescapeJSONString(trackMatch[1]))
		if artist == "" || track == "" {
			continue
		}

		songs = append(songs, models.Song{Artist: artist, Track: track})
	}
	return songs
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return ""
	}
}

func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
