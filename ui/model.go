package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"speech-arithmetic-quiz/question"
	"speech-arithmetic-quiz/quiz"
)

// Controller receives the user's commands; the quiz engine implements it.
type Controller interface {
	Post(event quiz.Event)
}

// Model is the terminal rendering surface: a setup screen picking the
// categories and the quiz screen.
type Model struct {
	controller Controller
	snapshots  <-chan quiz.State

	factories []question.Factory
	enabled   []bool
	cursor    int
	started   bool

	state   quiz.State
	keys    keyMap
	help    help.Model
	version string
	noColor bool
}

type Options struct {
	// Enabled preselects categories on the setup screen.
	Enabled []question.Category
	Version string
	NoColor bool
}

// SnapshotMsg carries a quiz state for rendering.
type SnapshotMsg struct {
	State quiz.State
}

func NewModel(controller Controller, snapshots <-chan quiz.State, opts Options) Model {
	factories := question.Factories()
	enabled := make([]bool, len(factories))

	for i, f := range factories {
		for _, c := range opts.Enabled {
			if f.Category == c {
				enabled[i] = true
			}
		}
	}

	return Model{
		controller: controller,
		snapshots:  snapshots,
		factories:  factories,
		enabled:    enabled,
		keys:       newKeyMap(),
		help:       help.New(),
		version:    opts.Version,
		noColor:    opts.NoColor,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		return m, nil
	case SnapshotMsg:
		m.state = typed.State
		return m, waitForSnapshot(m.snapshots)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.started {
			m.controller.Post(quiz.Stop())
		}

		return m, tea.Quit
	}

	if m.started {
		switch {
		case key.Matches(msg, m.keys.Reset):
			m.controller.Post(quiz.Reset())
		case key.Matches(msg, m.keys.Back):
			m.controller.Post(quiz.Stop())
			m.started = false
			m.keys.setup = true
		}

		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.factories)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.enabled[m.cursor] = !m.enabled[m.cursor]
	case key.Matches(msg, m.keys.Start):
		categories := m.selected()
		if len(categories) == 0 {
			return m, nil
		}

		m.controller.Post(quiz.Start(categories))
		m.started = true
		m.keys.setup = false
	}

	return m, nil
}

func (m Model) selected() []question.Category {
	var categories []question.Category

	for i, f := range m.factories {
		if m.enabled[i] {
			categories = append(categories, f.Category)
		}
	}

	return categories
}

func (m Model) View() string {
	body := renderSetup(m)
	if m.started {
		body = renderQuiz(m.state, m.noColor)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.version, m.noColor),
		"",
		body,
		"",
		m.help.View(m.keys),
	)
}

// waitForSnapshot blocks until the engine publishes a state.
func waitForSnapshot(snapshots <-chan quiz.State) tea.Cmd {
	return func() tea.Msg {
		if snapshots == nil {
			return nil
		}

		state, ok := <-snapshots
		if !ok {
			return tea.Quit()
		}

		return SnapshotMsg{State: state}
	}
}
