// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [PromptView] : Enter a free-text mood prompt and pick a personality
//  2. [GeneratingView] : Monitor real-time progress while the model works
//  3. [SongListView] : Review the generated songs
//  4. [ConfirmView] : Confirm playlist creation
//  5. [CreatingView] : Monitor search and attach progress
//  6. [ResultView] : Display the created playlist and unmatched songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting during generation and creation.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
