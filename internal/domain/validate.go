package domain

import (
	"net/url"
	"strings"
)

const (
	MinChoices = 2
	MaxChoices = 6
)

// Issue messages, in the order checks run.
const (
	IssueEmptyText    = "question text is empty"
	IssueChoiceCount  = "multiple-choice questions need 2 to 6 choices"
	IssueNoAnswer     = "no correct answer selected"
	IssueEmptyCreator = "creator name is required"
	IssueArticleURL   = "related article URL is invalid"
)

// ValidationResult is the outcome of checking one question.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// Validate runs every completeness check on q and reports all failures together.
func Validate(q Question) ValidationResult {
	var issues []string
	if strings.TrimSpace(q.Text) == "" {
		issues = append(issues, IssueEmptyText)
	}
	if !q.Type.IsFreeText() && (len(q.Choices) < MinChoices || len(q.Choices) > MaxChoices) {
		issues = append(issues, IssueChoiceCount)
	}
	if !hasAnswer(q) {
		issues = append(issues, IssueNoAnswer)
	}
	if strings.TrimSpace(q.Creator) == "" {
		issues = append(issues, IssueEmptyCreator)
	}
	if q.RelatedArticle != nil && q.RelatedArticle.URL != "" && !validURL(q.RelatedArticle.URL) {
		issues = append(issues, IssueArticleURL)
	}
	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// ValidateAll checks an ordered batch and returns a *ValidationError listing every invalid position.
func ValidateAll(questions []Question) error {
	var problems []Problem
	for i, q := range questions {
		if res := Validate(q); !res.Valid {
			problems = append(problems, Problem{Position: i, Issues: res.Issues})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func hasAnswer(q Question) bool {
	if q.Type.IsFreeText() {
		return strings.TrimSpace(q.Answer) != ""
	}
	_, ok := resolveIndex(q)
	return ok
}

// validURL accepts absolute URLs only, like the browser URL constructor.
func validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return false
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return u.Host != ""
	}
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}
