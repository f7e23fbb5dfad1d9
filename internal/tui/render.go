package tui

import (
	"fmt"
	"strings"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
)

func renderHeader(snap app.SessionSnapshot, style ThemeStyle, preview, noColor bool) string {
	title := bold(style.Title, noColor, style.Accent)
	line := fmt.Sprintf("%s  %s  %d/%d answered  score %d",
		title, stylize(snap.Date, noColor, style.Muted), snap.Answered, snap.Total, snap.Score)
	if preview {
		line += "  " + stylize("[preview]", noColor, style.Badge)
	}
	return line + "\n"
}

func renderQuestion(m Model, style ThemeStyle) string {
	q := m.questions[m.current]
	st := m.snap.States[m.current]
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", stylize(fmt.Sprintf("Question %d of %d", m.current+1, len(m.questions)), m.noColor, style.Badge))
	fmt.Fprintf(&b, "%s\n\n", bold(q.Question, m.noColor, style.Accent))

	if q.Type.IsFreeText() {
		switch {
		case st.IsAnswered:
			fmt.Fprintf(&b, "  your answer: %s\n", st.UserInput)
		case m.typing:
			fmt.Fprintf(&b, "  %s\n", m.input.View())
		case st.UserInput != "":
			fmt.Fprintf(&b, "  draft: %s\n", stylize(st.UserInput, m.noColor, style.Muted))
		default:
			fmt.Fprintf(&b, "  %s\n", stylize("press enter to type an answer", m.noColor, style.Muted))
		}
	} else {
		for i, opt := range q.Options {
			fmt.Fprintf(&b, "%s\n", renderOption(i, opt, q, st, m, style))
		}
	}

	if st.HintVisible && len(q.Hint) > 0 {
		b.WriteString("\n")
		for _, h := range q.Hint {
			fmt.Fprintf(&b, "  %s\n", stylize("hint: "+h, m.noColor, style.Hint))
		}
	}
	if st.IsAnswered {
		b.WriteString("\n")
		b.WriteString(renderVerdict(q, st, style, m.noColor))
	}
	if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", stylize(m.status, m.noColor, style.Wrong))
	}
	return b.String()
}

func renderOption(i int, opt string, q domain.StoredQuestion, st domain.AnswerState, m Model, style ThemeStyle) string {
	marker := "  "
	if !st.IsAnswered && i == m.cursor {
		marker = "> "
	}
	line := marker + opt
	if !st.IsAnswered {
		if i == m.cursor {
			return stylize(line, m.noColor, style.Accent)
		}
		return line
	}
	switch {
	case opt == q.Answer:
		return stylize(line+"  ✓", m.noColor, style.Correct)
	case st.SelectedAnswer != nil && *st.SelectedAnswer == opt:
		return stylize(line+"  ✗", m.noColor, style.Wrong)
	}
	return stylize(line, m.noColor, style.Muted)
}

func renderVerdict(q domain.StoredQuestion, st domain.AnswerState, style ThemeStyle, noColor bool) string {
	var b strings.Builder
	if st.IsCorrect {
		fmt.Fprintf(&b, "%s\n", bold("Correct!", noColor, style.Correct))
	} else {
		fmt.Fprintf(&b, "%s\n", bold("Wrong. Answer: "+q.Answer, noColor, style.Wrong))
	}
	if q.Explanation != "" {
		fmt.Fprintf(&b, "%s\n", q.Explanation)
	}
	if q.NewsLink != "" {
		fmt.Fprintf(&b, "%s\n", stylize(q.NewsLink, noColor, style.Muted))
	}
	return b.String()
}

func renderResult(snap app.SessionSnapshot, style ThemeStyle, noColor bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", bold("Quiz complete", noColor, style.Accent))
	fmt.Fprintf(&b, "  %d / %d\n", snap.Score, snap.Total)
	fmt.Fprintf(&b, "  %d%% correct\n\n", snap.Percent)
	fmt.Fprintf(&b, "  %s\n", stylize(resultBand(snap.Percent), noColor, style.Badge))
	return b.String()
}

// resultBand maps a percentage to the closing message.
func resultBand(percent int) string {
	switch {
	case percent >= 80:
		return "Outstanding. You are on top of the news."
	case percent >= 60:
		return "Well done."
	case percent >= 40:
		return "Not bad. Keep reading."
	default:
		return "Time to catch up on the headlines."
	}
}

func renderFooter(m Model, style ThemeStyle) string {
	var keys string
	switch {
	case m.typing:
		keys = "enter submit • esc stop typing • ctrl+c quit"
	case m.result:
		keys = "r restart • b review • q quit"
	default:
		keys = "↑/↓ choose • enter answer • h hint • n/p next/prev • r restart • q quit"
	}
	return "\n" + stylize(keys, m.noColor, style.Muted)
}
