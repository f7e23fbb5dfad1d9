package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTheme is returned when a theme name is outside the fixed set.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrQuestionIndex is returned when a position does not exist in the question list.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrUnauthorized indicates a credential mismatch on a write or delete.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidPayload indicates a request body is missing required fields.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrInvalidDate indicates a date key is not in yyyy-mm-dd form.
	ErrInvalidDate = errors.New("invalid date")
)

// Problem ties validation issues to a position in an ordered question list.
type Problem struct {
	Position int      `json:"position"`
	Issues   []string `json:"issues"`
}

// ValidationError reports every invalid question of a batch. Nothing is persisted when it is returned.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("question %d: %s", p.Position+1, strings.Join(p.Issues, ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
