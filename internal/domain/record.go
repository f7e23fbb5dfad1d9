package domain

import "sort"

// QuizRecord is one (gameType, quizDate) item as exchanged with the aggregation API and the ingest endpoint.
type QuizRecord struct {
	GameType string     `json:"gameType"`
	QuizDate string     `json:"quizDate"`
	Data     RecordData `json:"data"`
}

type RecordData struct {
	Questions []StoredQuestion `json:"questions"`
}

// DatasetFromRecords folds records into a Dataset. Records with an unknown game type are skipped and
// returned by name; a later record for the same (theme, date) wins.
func DatasetFromRecords(records []QuizRecord) (Dataset, []string) {
	ds := NewDataset()
	var skipped []string
	for _, r := range records {
		theme := Theme(r.GameType)
		if !theme.Valid() {
			skipped = append(skipped, r.GameType)
			continue
		}
		if len(r.Data.Questions) == 0 {
			delete(ds[theme], r.QuizDate)
			continue
		}
		ds[theme][r.QuizDate] = r.Data.Questions
	}
	return ds, skipped
}

// Records flattens a Dataset in theme order, dates ascending.
func (d Dataset) Records() []QuizRecord {
	var out []QuizRecord
	for _, theme := range Themes {
		dates := make([]string, 0, len(d[theme]))
		for date, qs := range d[theme] {
			if len(qs) > 0 {
				dates = append(dates, date)
			}
		}
		sort.Strings(dates)
		for _, date := range dates {
			out = append(out, QuizRecord{
				GameType: string(theme),
				QuizDate: date,
				Data:     RecordData{Questions: d[theme][date]},
			})
		}
	}
	return out
}
