package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"moodlist/internal/memory"
	"moodlist/internal/services"
	"moodlist/internal/shared"
	"moodlist/internal/tasks"
	"moodlist/internal/validate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    *services.SpotifyService
	engine     *tasks.PlaylistEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    *services.SpotifyService
	Engine     *tasks.PlaylistEngine
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Engine == nil {
		gen := opts.Config.Generator
		engineOpts := tasks.EngineOpts{
			History:      memory.NewStore(gen.HistorySize, gen.HistoryKeys),
			Validator:    validate.New(opts.Logger),
			Logger:       opts.Logger,
			MaxPerArtist: gen.MaxPerArtist,
		}
		if opts.Catalog != nil {
			engineOpts.Catalog = opts.Catalog
		}
		opts.Engine = tasks.NewPlaylistEngine(engineOpts)
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, generateCommand, playlistCommand, serveCommand, tuiCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// accessToken returns the saved Spotify access token, empty when not authenticated.
func (r *Runner) accessToken() string {
	if r.config == nil {
		return ""
	}
	return r.config.Credentials.Spotify.AccessToken
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
