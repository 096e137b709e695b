package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v3"
	"moodlist/internal/formatter"
	"moodlist/internal/shared"
	"moodlist/internal/tasks"
)

// Generate produces a song list from a mood prompt and prints or exports it.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	prompt := cmd.String("prompt")
	count := cmd.Int("count")
	mode := cmd.String("mode")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	exportFormat := cmd.String("export")
	outputFile := cmd.String("output")

	token := r.accessToken()
	if token == "" {
		return fmt.Errorf("%w: run `moodlist auth login` first", shared.ErrNotAuthenticated)
	}

	progress, done := r.streamProgress()
	result, err := r.engine.GenerateSongs(ctx, token, prompt, int(count), mode, progress)
	close(progress)
	<-done

	if err != nil {
		if verr, ok := tasks.AsValidationError(err); ok {
			r.writePlain("Invalid input:\n")
			for _, msg := range verr.Errors {
				r.writePlain("  • %s\n", msg)
			}
			return fmt.Errorf("%w", err)
		}
		return err
	}

	if exportFormat != "" {
		export := &formatter.SongExport{Name: "moodlist", Mode: mode, Songs: result.Songs}
		path, err := formatter.WriteExport(export, exportFormat, outputFile)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d songs to %s\n", result.TotalSongs, path)
		return nil
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"songs":      result.Songs,
			"totalSongs": result.TotalSongs,
		}, pretty)
	}

	r.writePlain("Generated %d songs:\n\n", result.TotalSongs)
	for i, song := range result.Songs {
		r.writePlain("%d. %s - %s\n", i+1, song.Artist, song.Track)
	}

	return nil
}

// PlaylistCreate generates songs and creates a Spotify playlist in one pass.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	prompt := cmd.String("prompt")
	count := cmd.Int("count")
	mode := cmd.String("mode")
	name := cmd.String("name")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	token := r.accessToken()
	if token == "" {
		return fmt.Errorf("%w: run `moodlist auth login` first", shared.ErrNotAuthenticated)
	}

	progress, done := r.streamProgress()
	genResult, err := r.engine.GenerateSongs(ctx, token, prompt, int(count), mode, progress)
	if err != nil {
		close(progress)
		<-done
		if verr, ok := tasks.AsValidationError(err); ok {
			r.writePlain("Invalid input:\n")
			for _, msg := range verr.Errors {
				r.writePlain("  • %s\n", msg)
			}
			return fmt.Errorf("%w", err)
		}
		return err
	}

	result, err := r.engine.CreatePlaylist(ctx, token, genResult.Songs, name, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlainln("✓ Playlist created")
	r.writePlain("%s", formatter.FormatResult(result))

	return nil
}

// streamProgress starts a goroutine that prints progress updates to the
// runner's output. The returned channel must be closed by the caller; the
// done channel closes once the printer drains.
func (r *Runner) streamProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	var once sync.Once
	go func() {
		defer once.Do(func() { close(done) })
		for update := range progress {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	return progress, done
}
