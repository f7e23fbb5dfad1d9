package domain

// Merge upserts incoming into existing by question id. Replaced entries keep their position,
// new ids are appended in incoming order, and a later duplicate id wins over an earlier one.
// Nothing is validated: malformed questions are kept as they are.
func Merge(existing, incoming []StoredQuestion) []StoredQuestion {
	out := make([]StoredQuestion, 0, len(existing)+len(incoming))
	pos := make(map[string]int, len(existing)+len(incoming))
	upsert := func(q StoredQuestion) {
		if i, ok := pos[q.ID]; ok {
			out[i] = q
			return
		}
		pos[q.ID] = len(out)
		out = append(out, q)
	}
	for _, q := range existing {
		upsert(q)
	}
	for _, q := range incoming {
		upsert(q)
	}
	return out
}
