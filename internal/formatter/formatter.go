// package formatter provides functions to export generated song lists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"moodlist/internal/models"
	"moodlist/internal/shared"
)

// SongExport bundles a generated song list with the context it came from.
type SongExport struct {
	Name  string        `json:"name"`
	Mode  string        `json:"mode,omitempty"`
	Songs []models.Song `json:"songs"`
}

// ExportToCSV converts a SongExport to CSV format with columns: #, Artist, Track
func ExportToCSV(export *SongExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"#", "Artist", "Track"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range export.Songs {
		record := []string{
			fmt.Sprintf("%d", i+1),
			song.Artist,
			song.Track,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a SongExport to Markdown format
func ExportToMarkdown(export *SongExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))

	if export.Mode != "" {
		buf.WriteString(fmt.Sprintf("**Personality**: %s\n", export.Mode))
	}
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(export.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Track))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a SongExport to plain text format
func ExportToText(export *SongExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Name))
	if export.Mode != "" {
		buf.WriteString(fmt.Sprintf("Personality: %s\n", export.Mode))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(export.Songs)))

	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Track))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a pretty JSON representation of the export
func ToJSON(export *SongExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// FormatResult renders a playlist creation outcome for terminal display.
func FormatResult(result *models.PlaylistResult) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist created: %s\n", result.PlaylistID))
	if result.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("URL: %s\n", result.PlaylistURL))
	}
	buf.WriteString(fmt.Sprintf("Tracks added: %d/%d\n", result.TracksAdded, result.TotalSongs))

	if result.TracksAdded == 0 && result.TotalSongs > 0 {
		buf.WriteString("No tracks could be attached; the playlist exists but is empty.\n")
	}

	return buf.String()
}

// WriteExport writes a SongExport to a file in the requested format.
//
// Format is one of "csv", "markdown", "text", or "json". The filename
// defaults to the export name with a format-appropriate extension.
func WriteExport(export *SongExport, format, filepath string) (string, error) {
	var (
		data []byte
		err  error
		ext  string
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(export)
		ext = ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(export)
		ext = ".md"
	case "json":
		data, err = ToJSON(export)
		ext = ".json"
	case "text", "txt", "":
		data, err = ExportToText(export)
		ext = ".txt"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if filepath == "" {
		filepath = export.Name + ext
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
