package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Generation pipeline errors
	ErrValidation          = fmt.Errorf("validation failed")
	ErrGenerationFailed    = fmt.Errorf("failed to generate songs")
	ErrResponseUnparseable = fmt.Errorf("failed to parse model response")
	ErrResponseMalformed   = fmt.Errorf("invalid response format")

	// Catalog errors
	ErrAPIRequest           = fmt.Errorf("API request failed")
	ErrServiceUnavailable   = fmt.Errorf("service unavailable")
	ErrPlaylistCreateFailed = fmt.Errorf("failed to create playlist")
	ErrTrackAttachFailed    = fmt.Errorf("failed to add tracks to playlist")

	// Input errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
