package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"speech-arithmetic-quiz/quiz"
)

const title = "さんすう クイズ"

var (
	titleColor   = lipgloss.Color("218")
	mutedColor   = lipgloss.Color("242")
	correctColor = lipgloss.Color("42")
	wrongColor   = lipgloss.Color("203")
	errorColor   = lipgloss.Color("196")
)

func renderHeader(version string, noColor bool) string {
	line := stylize(title, noColor, titleColor, true)
	if version != "" {
		line += " " + stylize(version, noColor, mutedColor, false)
	}

	return line
}

func renderSetup(m Model) string {
	var b strings.Builder

	for i, f := range m.factories {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		box := "[ ]"
		if m.enabled[i] {
			box = "[x]"
		}

		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, f.Label)
	}

	start := "start"
	if len(m.selected()) == 0 {
		start = stylize(start+" (pick at least one)", m.noColor, mutedColor, false)
	} else {
		start = stylize(start, m.noColor, titleColor, true)
	}

	b.WriteString("\n" + start)

	return b.String()
}

func renderQuiz(state quiz.State, noColor bool) string {
	if !state.HasQuestion {
		return stylize("…", noColor, mutedColor, false)
	}

	lines := []string{
		state.Question.DisplayText + renderAnswer(state, noColor),
		renderFeedback(state, noColor),
		stylize(fmt.Sprintf("○ %d  × %d", state.Score.Correct, state.Score.Incorrect), noColor, mutedColor, false),
		renderTranscript(state, noColor),
	}

	return strings.Join(lines, "\n")
}

func renderAnswer(state quiz.State, noColor bool) string {
	if state.Answer.Kind != quiz.AnswerParsed {
		return "?"
	}

	color := wrongColor
	if state.Correct {
		color = correctColor
	}

	return stylize(fmt.Sprint(state.Answer.Value), noColor, color, true)
}

func renderFeedback(state quiz.State, noColor bool) string {
	if state.Answer.Kind != quiz.AnswerParsed {
		return ""
	}

	if state.Correct {
		return stylize("◎ "+state.Language.Correct, noColor, correctColor, true)
	}

	return stylize(state.Language.Incorrect, noColor, wrongColor, false)
}

// renderTranscript is the debug readout of what the recognizer heard.
func renderTranscript(state quiz.State, noColor bool) string {
	indicator := "-"

	switch {
	case state.Speaking:
		indicator = "..."
	case state.Recognizing:
		indicator = "🎤"
	}

	line := stylize(state.Phase.String(), noColor, mutedColor, false) + " " + state.SpokenWord + indicator

	if state.RecognitionError != nil {
		line += " " + stylize(state.RecognitionError.Error(), noColor, errorColor, false)
	}

	return line
}

func stylize(text string, noColor bool, color lipgloss.Color, bold bool) string {
	if noColor {
		return text
	}

	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}
