package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ArchiveMonth lists the dates of one month, newest first.
type ArchiveMonth struct {
	Month int      `json:"month"`
	Dates []string `json:"dates"`
}

// ArchiveYear lists the months of one year, newest first.
type ArchiveYear struct {
	Year   int            `json:"year"`
	Months []ArchiveMonth `json:"months"`
}

// SortDatesDesc orders yyyy-mm-dd keys newest first.
func SortDatesDesc(dates []string) {
	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
}

// BuildArchive groups date keys into years and months, all newest first.
// Keys that do not start with a numeric year and month are skipped.
func BuildArchive(dates []string) []ArchiveYear {
	byYear := map[int]map[int][]string{}
	for _, d := range dates {
		parts := strings.SplitN(d, "-", 3)
		if len(parts) < 2 {
			continue
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		if byYear[year] == nil {
			byYear[year] = map[int][]string{}
		}
		byYear[year][month] = append(byYear[year][month], d)
	}

	years := make([]ArchiveYear, 0, len(byYear))
	for year, months := range byYear {
		entry := ArchiveYear{Year: year, Months: make([]ArchiveMonth, 0, len(months))}
		for month, ds := range months {
			SortDatesDesc(ds)
			entry.Months = append(entry.Months, ArchiveMonth{Month: month, Dates: ds})
		}
		sort.Slice(entry.Months, func(i, j int) bool { return entry.Months[i].Month > entry.Months[j].Month })
		years = append(years, entry)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year > years[j].Year })
	return years
}
