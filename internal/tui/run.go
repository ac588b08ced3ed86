package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser full-screen and blocks until the user quits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
