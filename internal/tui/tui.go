// Package tui provides the interactive unit stepper using Bubble Tea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/promptdeck/internal/app"
	"github.com/joss/promptdeck/internal/session"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	unitIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// inputMode is what the text input currently edits.
type inputMode int

const (
	modeNone inputMode = iota
	modeJump
	modeInstructions
)

// Message types
type tokenMsg int
type unitsMsg app.ExtractionResult
type copiedMsg int
type errMsg error

// Model is the stepper TUI model.
type Model struct {
	app *app.App

	mode     inputMode
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool

	tokenCount int
	flash      string
	err        error
}

// New creates the stepper model over an app.
func New(a *app.App) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	return Model{
		app:        a,
		input:      ti,
		tokenCount: a.State().TokenCount,
	}
}

// Run wires the app's async callbacks into the program and blocks until
// the user quits.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	a.SetListeners(
		func(n int) { p.Send(tokenMsg(n)) },
		func(r app.ExtractionResult) { p.Send(unitsMsg(r)) },
	)
	_, err := p.Run()
	return err
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeNone {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "right", "n", "l":
			m.app.NextUnit()
			m.syncViewport()
			return m, nil
		case "left", "p", "h":
			m.app.PrevUnit()
			m.syncViewport()
			return m, nil
		case "j":
			m.mode = modeJump
			m.input.Placeholder = "Jump to unit id..."
			m.input.SetValue("")
			m.input.Focus()
			return m, nil
		case "i":
			m.mode = modeInstructions
			m.input.Placeholder = "Prompt instructions..."
			m.input.SetValue(m.app.State().Instructions)
			m.input.Focus()
			return m, nil
		case "t":
			m.app.SetIncludeTree(!m.app.State().IncludeTree)
			m.flash = ""
			return m, nil
		case "c", "enter":
			return m, m.copyCmd()
		case "up", "k":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-6, msg.Height-9)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 6
			m.viewport.Height = msg.Height - 9
		}
		m.syncViewport()
		return m, nil

	case tokenMsg:
		m.tokenCount = int(msg)
		return m, nil

	case unitsMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.err = nil
			m.syncViewport()
		}
		return m, nil

	case copiedMsg:
		m.tokenCount = int(msg)
		m.flash = fmt.Sprintf("copied (%d tokens)", int(msg))
		return m, nil

	case errMsg:
		m.err = msg
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		switch m.mode {
		case modeJump:
			if !m.app.JumpToUnit(strings.TrimSpace(value)) {
				m.flash = "no unit with that id"
			} else {
				m.flash = ""
				m.syncViewport()
			}
		case modeInstructions:
			m.app.SetInstructions(value)
			m.flash = ""
		}
		m.mode = modeNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	if u, ok := m.app.Units().Current(); ok {
		m.viewport.SetContent(u.Body)
		m.viewport.GotoTop()
	} else {
		m.viewport.SetContent(infoStyle.Render("no units loaded"))
	}
}

func (m Model) copyCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.app.CopyDocument()
		if err != nil {
			return errMsg(err)
		}
		return copiedMsg(n)
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	state := m.app.State()
	seq := m.app.Units()

	b.WriteString(titleStyle.Render("promptdeck"))
	b.WriteString(infoStyle.Render(fmt.Sprintf("  %s mode", state.Mode)))
	if state.UnitSource != "" {
		b.WriteString(infoStyle.Render("  " + state.UnitSource))
	}
	b.WriteString("\n\n")

	if u, ok := seq.Current(); ok {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			unitIDStyle.Render(u.ID),
			infoStyle.Render(fmt.Sprintf("(%d of %d)", seq.Cursor()+1, seq.Len()))))
	} else if state.Mode != session.ModeFolder {
		b.WriteString(infoStyle.Render("  no units") + "\n")
	} else {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %d files selected", len(state.SelectedFiles))) + "\n")
	}

	b.WriteString(boxStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.mode != modeNone {
		b.WriteString("  " + m.input.View() + "\n")
	}

	status := fmt.Sprintf(" %d tokens ", m.tokenCount)
	if state.IncludeTree {
		status += "| tree "
	}
	if m.flash != "" {
		status += "| " + m.flash + " "
	}
	b.WriteString(statusBarStyle.Render(status))

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  "+m.err.Error()))
	}

	b.WriteString(helpStyle.Render("\n  n/p step · j jump · i prompt · t tree · c copy · q quit"))
	return b.String()
}
