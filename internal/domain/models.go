package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType decides which fields of a question are meaningful and how answers are matched.
// The values are the literals used by the published dataset.
type QuestionType string

const (
	MultipleChoice QuestionType = "객관식"
	FreeText       QuestionType = "주관식"
)

// IsFreeText reports whether answers are typed rather than picked. An empty type is multiple-choice.
func (t QuestionType) IsFreeText() bool {
	return t == FreeText
}

func (t *QuestionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "", string(MultipleChoice), "multiple-choice", "multiple_choice":
		*t = MultipleChoice
	case string(FreeText), "free-text", "free_text", "short-answer":
		*t = FreeText
	default:
		return fmt.Errorf("unknown question type %q", raw)
	}
	return nil
}

// Hints decodes either a single string or a list of strings.
type Hints []string

func (h *Hints) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*h = nil
		} else {
			*h = Hints{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("hint must be a string or a list of strings: %w", err)
	}
	*h = many
	return nil
}

// RelatedArticle points at the news story a question was written from.
type RelatedArticle struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}

func (a *RelatedArticle) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Excerpt string `json:"excerpt"`
		URL     string `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Title = raw.Title
	a.Snippet = raw.Snippet
	if a.Snippet == "" {
		a.Snippet = raw.Excerpt
	}
	a.URL = raw.URL
	return nil
}

// Question is the canonical in-memory question as authored in the editor.
// For multiple-choice questions the correct answer is CorrectIndex; for free-text it is Answer.
type Question struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Theme          Theme           `json:"theme"`
	Type           QuestionType    `json:"questionType,omitempty"`
	Title          string          `json:"title,omitempty"`
	Text           string          `json:"question_text"`
	Choices        []string        `json:"choices"`
	CorrectIndex   *int            `json:"correct_index"`
	Answer         string          `json:"answer,omitempty"`
	Explanation    string          `json:"explanation,omitempty"`
	Hints          Hints           `json:"hints,omitempty"`
	RelatedArticle *RelatedArticle `json:"related_article,omitempty"`
	Creator        string          `json:"creator"`
	Tags           string          `json:"tags,omitempty"`
}

// Clone returns a deep copy so slices and pointers are not shared.
func (q Question) Clone() Question {
	out := q
	out.Choices = append([]string(nil), q.Choices...)
	out.Hints = append(Hints(nil), q.Hints...)
	if q.CorrectIndex != nil {
		idx := *q.CorrectIndex
		out.CorrectIndex = &idx
	}
	if q.RelatedArticle != nil {
		ra := *q.RelatedArticle
		out.RelatedArticle = &ra
	}
	return out
}

// StoredQuestion is the persisted form: the correct answer is the literal choice string.
type StoredQuestion struct {
	ID             string          `json:"id"`
	Type           QuestionType    `json:"questionType"`
	Question       string          `json:"question"`
	Options        []string        `json:"options,omitempty"`
	Hint           Hints           `json:"hint,omitempty"`
	Answer         string          `json:"answer"`
	Explanation    string          `json:"explanation"`
	NewsLink       string          `json:"newsLink"`
	Tags           string          `json:"tags,omitempty"`
	RelatedArticle *RelatedArticle `json:"relatedArticle,omitempty"`
	Creator        string          `json:"creator,omitempty"`
}

// ThemeBatch groups one date's questions by theme. A missing or empty theme means "no entry".
type ThemeBatch map[Theme][]StoredQuestion

// Dataset is every stored question keyed by theme, then date.
type Dataset map[Theme]map[string][]StoredQuestion

// NewDataset returns a dataset with an empty bucket for each theme.
func NewDataset() Dataset {
	ds := make(Dataset, len(Themes))
	for _, t := range Themes {
		ds[t] = map[string][]StoredQuestion{}
	}
	return ds
}

// Questions returns the set for (theme, date), or nil when absent.
func (d Dataset) Questions(theme Theme, date string) []StoredQuestion {
	return d[theme][date]
}

// AnswerState is one position of a quiz session.
type AnswerState struct {
	SelectedAnswer *string `json:"selectedAnswer"`
	UserInput      string  `json:"userAnswer"`
	IsAnswered     bool    `json:"isAnswered"`
	IsCorrect      bool    `json:"isCorrect"`
	HintVisible    bool    `json:"showHint"`
}

// Progress is the persisted snapshot of a quiz session.
type Progress struct {
	States   []AnswerState `json:"questionStates"`
	Score    int           `json:"score"`
	Complete bool          `json:"isComplete"`
	SavedAt  time.Time     `json:"timestamp"`
}

// ProgressKey identifies one player's progress on a (theme, date) question set.
// Player is empty for a single local player.
type ProgressKey struct {
	Player string
	Theme  Theme
	Date   string
}

// String is the record name inside one player's storage.
func (k ProgressKey) String() string {
	return "quiz-progress-" + string(k.Theme) + "-" + k.Date
}

// Scoped is unique across players.
func (k ProgressKey) Scoped() string {
	if k.Player == "" {
		return k.String()
	}
	return k.Player + ":" + k.String()
}
