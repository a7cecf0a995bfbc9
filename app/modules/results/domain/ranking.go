package resultsdomain

import "strings"

// SequentialRank is the positional rank used by the leaderboard and export
// views: rows are numbered in display order across pages, so two equal
// totals receive consecutive ranks.
func SequentialRank(page, pageSize, index int) int {
	if page < 1 {
		page = 1
	}
	return (page-1)*pageSize + index + 1
}

// CompetitionRank is the tie-aware rank used by the per-participant history
// view: one plus the number of strictly smaller totals in the same race.
// Tied totals share a rank and the next distinct total skips ahead (1, 1, 3).
func CompetitionRank(total float64, totals []float64) int {
	rank := 1
	for _, t := range totals {
		if t < total {
			rank++
		}
	}
	return rank
}

// Paginate returns the window of rows for a 1-based page. A non-positive
// page size returns everything.
func Paginate[T any](rows []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// MatchesSearch reports whether any field contains the search term,
// case-insensitively. An empty term matches everything.
func MatchesSearch(term string, fields ...string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
