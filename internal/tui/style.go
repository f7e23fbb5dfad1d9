package tui

import (
	"newsquiz/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

// ThemeStyle is the palette for one theme.
type ThemeStyle struct {
	Title   string
	Accent  lipgloss.Color
	Badge   lipgloss.Color
	Muted   lipgloss.Color
	Correct lipgloss.Color
	Wrong   lipgloss.Color
	Hint    lipgloss.Color
}

var themeStyles = map[domain.Theme]ThemeStyle{
	domain.BlackSwan: {
		Title:  "Black Swan",
		Accent: lipgloss.Color("#1E3A8A"),
		Badge:  lipgloss.Color("#3B82F6"),
	},
	domain.PrisonersDilemma: {
		Title:  "Prisoner's Dilemma",
		Accent: lipgloss.Color("#8B5E3C"),
		Badge:  lipgloss.Color("#D97706"),
	},
	domain.SignalDecoding: {
		Title:  "Signal Decoding",
		Accent: lipgloss.Color("#184E77"),
		Badge:  lipgloss.Color("#0D9488"),
	},
}

// StyleFor returns the palette for theme, falling back to a neutral one.
func StyleFor(theme domain.Theme) ThemeStyle {
	s, ok := themeStyles[theme]
	if !ok {
		s = ThemeStyle{Title: string(theme), Accent: lipgloss.Color("33"), Badge: lipgloss.Color("39")}
	}
	s.Muted = lipgloss.Color("244")
	s.Correct = lipgloss.Color("42")
	s.Wrong = lipgloss.Color("196")
	s.Hint = lipgloss.Color("178")
	return s
}

// stylize applies a foreground color unless color is disabled.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func bold(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}
