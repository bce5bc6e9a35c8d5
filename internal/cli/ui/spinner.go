// Package ui provides the terminal presentation layer of rentalctl: a
// spinner for long calls and table rendering for list output.
package ui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type doneMsg struct{ err error }

type tickMsg struct{}

type spinnerModel struct {
	title string
	frame int
	err   error
}

func (m spinnerModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame = (m.frame + 1) % len(frames)
		return m, tick()
	case doneMsg:
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return fmt.Sprintf("%s %s", spinnerStyle.Render(frames[m.frame]), m.title)
}

// Spin runs fn while showing an animated spinner. On a non-TTY (pipes,
// CI) it degrades to running fn silently.
func Spin(title string, fn func() error) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fn()
	}
	p := tea.NewProgram(spinnerModel{title: title})
	result := make(chan error, 1)
	go func() {
		err := fn()
		result <- err
		p.Send(doneMsg{err: err})
	}()
	if _, err := p.Run(); err != nil {
		return err
	}
	return <-result
}
