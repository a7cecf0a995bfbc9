// Package resultsdto defines the response shapes of the results engine.
package resultsdto

import (
	"fmt"
	"time"
)

// ImportReport summarizes a bulk import: how many data rows were seen, how
// many landed, and one human-readable message per failed row.
type ImportReport struct {
	ImportID string   `json:"import_id"`
	Total    int      `json:"total"`
	Success  int      `json:"success"`
	Errors   []string `json:"errors"`
}

// AddError records a row failure with its file line number.
func (r *ImportReport) AddError(line int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

// LeaderboardRow is one ranked standing, individual or team.
type LeaderboardRow struct {
	Rank           int     `json:"rank"`
	ParticipantID  int64   `json:"participant_id,omitempty"`
	TeamID         int64   `json:"team_id,omitempty"`
	DisplayName    string  `json:"display_name"`
	RaceID         int64   `json:"race_id"`
	RaceName       string  `json:"race_name"`
	RawTime        float64 `json:"raw_time"`
	Penalty        float64 `json:"penalty"`
	Total          float64 `json:"total"`
	RawTimeDisplay string  `json:"raw_time_display"`
	PenaltyDisplay string  `json:"penalty_display"`
	TotalDisplay   string  `json:"total_display"`
	MemberCount    int     `json:"member_count,omitempty"`
	Status         string  `json:"status,omitempty"`
}

// PagedResult is a page of leaderboard rows plus paging metadata.
type PagedResult struct {
	Rows       []LeaderboardRow `json:"rows"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalRows  int              `json:"total_rows"`
	TotalPages int              `json:"total_pages"`
}

// SortDirection orders a history listing by computed rank.
type SortDirection string

const (
	SortBestFirst  SortDirection = "asc"
	SortWorstFirst SortDirection = "desc"
)

// HistoryRow is one race outcome in a participant's or team's history,
// annotated with a tie-aware rank against the whole field of that race.
type HistoryRow struct {
	RaceID         int64     `json:"race_id"`
	RaceName       string    `json:"race_name"`
	RaceDate       time.Time `json:"race_date"`
	Rank           int       `json:"rank"`
	RaceSize       int       `json:"race_size"`
	TeamID         int64     `json:"team_id,omitempty"`
	TeamName       string    `json:"team_name,omitempty"`
	RawTime        float64   `json:"raw_time"`
	Penalty        float64   `json:"penalty"`
	Total          float64   `json:"total"`
	RawTimeDisplay string    `json:"raw_time_display"`
	PenaltyDisplay string    `json:"penalty_display"`
	TotalDisplay   string    `json:"total_display"`
}

// ResultList is a participant's (or team's) full history.
type ResultList struct {
	Rows []HistoryRow `json:"rows"`
}

// IndividualResultView echoes a stored individual result.
type IndividualResultView struct {
	ResultID      int64   `json:"result_id"`
	ParticipantID int64   `json:"participant_id"`
	RaceID        int64   `json:"race_id"`
	RawTime       float64 `json:"raw_time"`
	Penalty       float64 `json:"penalty"`
	Total         float64 `json:"total"`
}
