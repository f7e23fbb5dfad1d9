package domain

// ToStored maps an editor question to its persisted form.
func ToStored(q Question) StoredQuestion {
	s := StoredQuestion{
		ID:          q.ID,
		Type:        q.Type,
		Question:    q.Text,
		Explanation: q.Explanation,
		Tags:        q.Tags,
		Creator:     q.Creator,
	}
	if s.Type == "" {
		s.Type = MultipleChoice
	}
	if s.Type.IsFreeText() {
		s.Answer = q.Answer
		s.Hint = append(Hints(nil), q.Hints...)
	} else {
		s.Options = append([]string(nil), q.Choices...)
		if idx, ok := resolveIndex(q); ok {
			s.Answer = q.Choices[idx]
		}
	}
	if q.RelatedArticle != nil {
		ra := *q.RelatedArticle
		s.RelatedArticle = &ra
		s.NewsLink = ra.URL
	}
	return s
}

// FromStored maps a persisted question back to the editor form for the given bucket.
// CorrectIndex is the first option equal to the answer, or nil when no option matches.
func FromStored(theme Theme, date string, s StoredQuestion) Question {
	q := Question{
		ID:          s.ID,
		Date:        date,
		Theme:       theme,
		Type:        s.Type,
		Text:        s.Question,
		Explanation: s.Explanation,
		Tags:        s.Tags,
		Creator:     s.Creator,
		Choices:     append([]string(nil), s.Options...),
	}
	if q.Type == "" {
		q.Type = MultipleChoice
	}
	if q.Type.IsFreeText() {
		q.Answer = s.Answer
		q.Hints = append(Hints(nil), s.Hint...)
	} else {
		for i, opt := range s.Options {
			if opt == s.Answer {
				idx := i
				q.CorrectIndex = &idx
				break
			}
		}
	}
	switch {
	case s.RelatedArticle != nil:
		ra := *s.RelatedArticle
		if ra.URL == "" {
			ra.URL = s.NewsLink
		}
		q.RelatedArticle = &ra
	case s.NewsLink != "":
		q.RelatedArticle = &RelatedArticle{URL: s.NewsLink}
	}
	if q.Choices == nil {
		q.Choices = []string{}
	}
	return q
}

func resolveIndex(q Question) (int, bool) {
	if q.CorrectIndex == nil {
		return 0, false
	}
	idx := *q.CorrectIndex
	if idx < 0 || idx >= len(q.Choices) {
		return 0, false
	}
	return idx, true
}
