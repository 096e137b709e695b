package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"moodlist/internal/models"
	"moodlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PromptView ViewState = iota
	GeneratingView
	SongListView
	ConfirmView
	CreatingView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.PlaylistEngine
	token        string
	width        int
	height       int
	prompt       textarea.Model
	modeIndex    int
	songCount    int
	spin         spinner.Model
	songList     list.Model
	songs        []models.Song
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	genResult    *tasks.GenerateResult
	playlist     *models.PlaylistResult
	err          error
	help         help.Model
	keys         keyMap
}

// songItem wraps [models.Song] to implement list.Item.
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Track }
func (i songItem) Title() string       { return i.song.Track }
func (i songItem) Description() string { return i.song.Artist }

type generateDoneMsg struct {
	result *tasks.GenerateResult
	err    error
}

type createDoneMsg struct {
	result *models.PlaylistResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type progressClosedMsg struct{}

// NewModel creates a new TUI model with the provided dependencies.
//
// The token is the Spotify access token obtained from the login flow; the
// engine refuses to generate for an empty one.
func NewModel(ctx context.Context, engine *tasks.PlaylistEngine, token string, songCount int) *Model {
	prompt := textarea.New()
	prompt.Placeholder = "Describe the mood, scene, or occasion..."
	prompt.Focus()
	prompt.SetHeight(4)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	if songCount <= 0 {
		songCount = 20
	}

	return &Model{
		ctx:       ctx,
		view:      PromptView,
		engine:    engine,
		token:     token,
		prompt:    prompt,
		songCount: songCount,
		spin:      spin,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the textarea cursor blink.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(msg.Width - 4)
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PromptView:
			return m.handlePromptKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case GeneratingView, CreatingView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case progressClosedMsg:
		return m, nil

	case generateDoneMsg:
		m.drainProgress()
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.genResult = msg.result
		m.songs = msg.result.Songs
		items := make([]list.Item, len(m.songs))
		for i, song := range m.songs {
			items[i] = songItem{song: song}
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = fmt.Sprintf("Generated Songs (%d)", len(m.songs))
		m.songList.SetSize(m.width-4, m.height-8)
		m.view = SongListView
		return m, nil

	case createDoneMsg:
		m.drainProgress()
		m.playlist = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PromptView:
		return m.renderPrompt()
	case GeneratingView:
		return m.renderProgress("Generating Songs")
	case SongListView:
		return m.renderSongList()
	case ConfirmView:
		return m.renderConfirm()
	case CreatingView:
		return m.renderProgress("Creating Playlist")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.modeIndex = (m.modeIndex + 1) % len(models.PersonalityModes)
		return m, nil
	case "ctrl+d", "ctrl+s":
		m.view = GeneratingView
		return m, tea.Batch(m.spin.Tick, m.startGeneration())
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PromptView
		return m, textarea.Blink
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = SongListView
		return m, nil
	case "y":
		m.view = CreatingView
		return m, tea.Batch(m.spin.Tick, m.startCreation())
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PromptView
		m.prompt.Reset()
		m.prompt.Focus()
		m.songs = nil
		m.genResult = nil
		m.playlist = nil
		m.err = nil
		return m, textarea.Blink
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PromptView:
		m.prompt, cmd = m.prompt.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) currentMode() string {
	return string(models.PersonalityModes[m.modeIndex])
}

func (m *Model) startGeneration() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	prompt := m.prompt.Value()
	mode := m.currentMode()

	done := func() tea.Msg {
		result, err := m.engine.GenerateSongs(m.ctx, m.token, prompt, m.songCount, mode, m.progressChan)
		return generateDoneMsg{result: result, err: err}
	}

	return tea.Batch(done, m.waitForProgress())
}

func (m *Model) startCreation() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	songs := m.songs

	done := func() tea.Msg {
		result, err := m.engine.CreatePlaylist(m.ctx, m.token, songs, "", m.progressChan)
		return createDoneMsg{result: result, err: err}
	}

	return tea.Batch(done, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return progressClosedMsg{}
		}
		update, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) drainProgress() {
	if m.progressChan != nil {
		close(m.progressChan)
		m.progressChan = nil
	}
}

func (m *Model) renderPrompt() string {
	title := styles.title.Render("Describe Your Mood")
	meta := styles.help.Render(fmt.Sprintf("personality: %s • songs: %d", m.currentMode(), m.songCount))

	submitKey := key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "generate"))
	helpKeys := []key.Binding{submitKey, m.keys.mode, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, meta, m.prompt.View(), helpView)
}

func (m *Model) renderProgress(heading string) string {
	title := styles.title.Render(heading)

	message := m.progress.Message
	if message == "" {
		message = "Working..."
	}

	var counter string
	if m.progress.Total > 1 {
		counter = fmt.Sprintf(" (%d/%d)", m.progress.Step, m.progress.Total)
	}

	return fmt.Sprintf("%s\n\n%s %s%s", title, m.spin.View(), message, counter)
}

func (m *Model) renderSongList() string {
	createKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create playlist"))
	helpKeys := []key.Binding{createKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create a Spotify playlist with %d songs?", len(m.songs)))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		if verr, ok := tasks.AsValidationError(m.err); ok {
			var lines string
			for _, e := range verr.Errors {
				lines += fmt.Sprintf("\n  • %s", e)
			}
			return fmt.Sprintf("%s%s\n\n%s", styles.err.Render("Invalid input:"), lines, helpView)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), helpView)
	}

	if m.playlist == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf("\nTracks added: %d/%d\nURL: %s", m.playlist.TracksAdded, m.playlist.TotalSongs, m.playlist.PlaylistURL)

	var warn string
	if m.playlist.TracksAdded < m.playlist.TotalSongs {
		missed := m.playlist.TotalSongs - m.playlist.TracksAdded
		warn = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d songs could not be matched on Spotify", missed)))
	}

	return fmt.Sprintf("%s%s%s\n\n%s", title, info, warn, helpView)
}
