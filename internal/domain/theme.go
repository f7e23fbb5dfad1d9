package domain

import (
	"fmt"
	"time"
)

// Theme is one of the quiz content categories and the partition key for stored questions.
type Theme string

const (
	BlackSwan        Theme = "BlackSwan"
	SignalDecoding   Theme = "SignalDecoding"
	PrisonersDilemma Theme = "PrisonersDilemma"
)

// Themes lists every theme in the order batches are written and loaded.
var Themes = []Theme{BlackSwan, SignalDecoding, PrisonersDilemma}

// DefaultTheme is assigned to questions created in the editor.
const DefaultTheme = BlackSwan

var gameIDs = map[string]Theme{
	"g1": BlackSwan,
	"g2": PrisonersDilemma,
	"g3": SignalDecoding,
}

// Valid reports whether t belongs to the fixed theme set.
func (t Theme) Valid() bool {
	switch t {
	case BlackSwan, SignalDecoding, PrisonersDilemma:
		return true
	}
	return false
}

func (t Theme) String() string { return string(t) }

// ParseTheme accepts a theme name or one of the player game ids (g1, g2, g3).
func ParseTheme(raw string) (Theme, error) {
	if t := Theme(raw); t.Valid() {
		return t, nil
	}
	if t, ok := gameIDs[raw]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, raw)
}

// ThemeForGameID maps a player game id to its theme.
func ThemeForGameID(id string) (Theme, bool) {
	t, ok := gameIDs[id]
	return t, ok
}

// DateLayout is the calendar-date key format used alongside theme.
const DateLayout = "2006-01-02"

// ParseDate checks that raw is an ISO yyyy-mm-dd calendar date.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}
