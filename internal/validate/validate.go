// package validate sanitizes and validates song generation inputs before any external call is made.
//
// Prompt text is screened against a fixed table of injection-signal patterns;
// a match is reported to the caller only as a generic message while the
// matched pattern identifier is logged for monitoring.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"moodlist/internal/models"
)

const (
	PromptMinLength = 10
	PromptMaxLength = 1000
	SongCountMin    = 1
	SongCountMax    = 50
)

// suspiciousPattern pairs an injection-signal regexp with a stable identifier for logging.
type suspiciousPattern struct {
	id string
	re *regexp.Regexp
}

// Patterns that might indicate prompt injection attempts.
// Matched case-insensitively against the trimmed original text, before sanitization.
var suspiciousPatterns = []suspiciousPattern{
	{"ignore_instructions", regexp.MustCompile(`(?i)ignore.*(previous|above|earlier).*(instruction|prompt|rule)`)},
	{"system_prompt", regexp.MustCompile(`(?i)system.*prompt`)},
	{"override_instruction", regexp.MustCompile(`(?i)override.*instruction`)},
	{"forget_instructions", regexp.MustCompile(`(?i)forget.*(previous|above|earlier).*(instruction|prompt|rule)`)},
	{"disregard_instructions", regexp.MustCompile(`(?i)disregard.*(previous|above|earlier).*(instruction|prompt|rule)`)},
	{"act_as", regexp.MustCompile(`(?i)now.*act.*as`)},
	{"pretend_you_are", regexp.MustCompile(`(?i)pretend.*you.*are`)},
	{"roleplay_as", regexp.MustCompile(`(?i)roleplay.*as`)},
	{"new_system_message", regexp.MustCompile(`(?i)new.*system.*message`)},
	{"change_role", regexp.MustCompile(`(?i)change.*your.*role`)},
	{"you_are_now", regexp.MustCompile(`(?i)you.*are.*now`)},
	{"assistant_mode_off", regexp.MustCompile(`(?i)assistant.*mode.*off`)},
	{"disable_safety", regexp.MustCompile(`(?i)disable.*safety`)},
	{"bypass_filter", regexp.MustCompile(`(?i)bypass.*filter`)},
}

var (
	harmfulChars = regexp.MustCompile("[<>\"'`]")
	lineBreaks   = regexp.MustCompile(`[\r\n\t]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Result is the outcome of validating a set of prompt inputs.
//
// Either Errors is non-empty, or Valid is true and Request holds the typed,
// sanitized inputs. Never both.
type Result struct {
	Valid           bool
	Errors          []string
	SanitizedPrompt string
	Request         models.PromptRequest
}

// Validator checks raw song generation inputs against the input contract.
type Validator struct {
	logger *log.Logger
}

// New creates a Validator. The logger receives suspicious-pattern reports; nil disables them.
func New(logger *log.Logger) *Validator {
	return &Validator{logger: logger}
}

// Sanitize removes potentially harmful characters and normalizes whitespace.
//
// Must run after suspicious-pattern detection so injection attempts are
// evaluated against the original text.
func Sanitize(prompt string) string {
	s := strings.TrimSpace(prompt)
	s = harmfulChars.ReplaceAllString(s, "")
	s = lineBreaks.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ValidatePrompt checks the prompt for length bounds and injection signals.
//
// All checks are evaluated so multiple errors can be reported at once.
func (v *Validator) ValidatePrompt(prompt any) []string {
	var errs []string

	text, ok := prompt.(string)
	if !ok || text == "" {
		return []string{"Prompt is required and must be a string"}
	}

	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)

	if length < PromptMinLength {
		errs = append(errs, fmt.Sprintf("Prompt must be at least %d characters long", PromptMinLength))
	}

	if length > PromptMaxLength {
		errs = append(errs, fmt.Sprintf("Prompt must be less than %d characters", PromptMaxLength))
	}

	for _, p := range suspiciousPatterns {
		if p.re.MatchString(trimmed) {
			errs = append(errs, "Prompt contains invalid content")
			// Log the pattern id and length only, never the prompt text.
			if v.logger != nil {
				v.logger.Warn("suspicious prompt pattern detected",
					"pattern", p.id,
					"prompt_length", length,
					"timestamp", time.Now().UTC().Format(time.RFC3339),
				)
			}
			break
		}
	}

	return errs
}

// ValidateSongCount checks that the count is an integral number within [SongCountMin, SongCountMax].
func (v *Validator) ValidateSongCount(songCount any) []string {
	var errs []string
	var count float64

	switch n := songCount.(type) {
	case int:
		count = float64(n)
	case int64:
		count = float64(n)
	case float64:
		count = n
	default:
		return []string{"Song count must be a number"}
	}

	if count != math.Trunc(count) {
		errs = append(errs, "Song count must be a whole number")
	}

	if count < SongCountMin {
		errs = append(errs, fmt.Sprintf("Song count must be at least %d", SongCountMin))
	}

	if count > SongCountMax {
		errs = append(errs, fmt.Sprintf("Song count must be no more than %d", SongCountMax))
	}

	return errs
}

// ValidatePersonalityMode checks membership in the fixed mode enum (case sensitive).
func (v *Validator) ValidatePersonalityMode(personalityMode any) []string {
	mode, ok := personalityMode.(string)
	if !ok {
		return []string{"Personality mode must be a string"}
	}

	if !models.ValidPersonalityMode(mode) {
		names := make([]string, len(models.PersonalityModes))
		for i, m := range models.PersonalityModes {
			names[i] = string(m)
		}
		return []string{fmt.Sprintf("Invalid personality mode. Must be one of: %s", strings.Join(names, ", "))}
	}

	return nil
}

// Validate runs all input checks and, when everything passes, returns the
// sanitized prompt and the typed request.
func (v *Validator) Validate(prompt, songCount, personalityMode any) Result {
	var errs []string
	errs = append(errs, v.ValidatePrompt(prompt)...)
	errs = append(errs, v.ValidateSongCount(songCount)...)
	errs = append(errs, v.ValidatePersonalityMode(personalityMode)...)

	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}

	text, _ := prompt.(string)
	mode, _ := personalityMode.(string)
	sanitized := Sanitize(text)

	return Result{
		Valid:           true,
		SanitizedPrompt: sanitized,
		Request: models.PromptRequest{
			Prompt:          sanitized,
			SongCount:       coerceCount(songCount),
			PersonalityMode: mode,
		},
	}
}

func coerceCount(songCount any) int {
	switch n := songCount.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
