package resultsservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	resultsdomain "github.com/Infuseting/SAE301-sub003/app/modules/results/domain"
	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// History views rank a result against the whole field of its race with the
// tie-aware competition rank: equal totals share a rank and the next
// distinct total skips ahead.

// GetUserResults returns every individual result of a participant across
// races, annotated with rank and field size, ordered by rank.
func (s *ResultService) GetUserResults(ctx context.Context, userID sharedtypes.UserID, search string, sortBy resultsdto.SortDirection) (*resultsdto.ResultList, error) {
	defer s.observe("GetUserResults", time.Now())

	known, err := s.refs.UserExists(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participant %d: %w", userID, err)
	}
	if !known {
		return nil, fmt.Errorf("participant %d: %w", userID, ErrUserNotFound)
	}

	standings, err := s.results.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	raceIDs := make([]sharedtypes.RaceID, 0, len(standings))
	for _, st := range standings {
		raceIDs = append(raceIDs, st.RaceID)
	}
	field, err := s.results.ListForRaces(ctx, nil, raceIDs)
	if err != nil {
		return nil, err
	}
	totalsByRace := make(map[sharedtypes.RaceID][]float64, len(raceIDs))
	for _, r := range field {
		totalsByRace[r.RaceID] = append(totalsByRace[r.RaceID], r.Total)
	}

	rows := make([]resultsdto.HistoryRow, 0, len(standings))
	for _, st := range standings {
		if !resultsdomain.MatchesSearch(search, st.RaceName) {
			continue
		}
		totals := totalsByRace[st.RaceID]
		rows = append(rows, resultsdto.HistoryRow{
			RaceID:         int64(st.RaceID),
			RaceName:       st.RaceName,
			RaceDate:       st.RaceDate,
			Rank:           resultsdomain.CompetitionRank(st.Total, totals),
			RaceSize:       len(totals),
			RawTime:        st.RawTime,
			Penalty:        st.Penalty,
			Total:          st.Total,
			RawTimeDisplay: resultsdomain.FormatSeconds(st.RawTime),
			PenaltyDisplay: resultsdomain.FormatSeconds(st.Penalty),
			TotalDisplay:   resultsdomain.FormatSeconds(st.Total),
		})
	}

	sortHistory(rows, sortBy)
	return &resultsdto.ResultList{Rows: rows}, nil
}

// GetUserTeamResults returns the results of every team the participant has
// raced with, ranked against the other teams of each race.
func (s *ResultService) GetUserTeamResults(ctx context.Context, userID sharedtypes.UserID, search string, sortBy resultsdto.SortDirection) (*resultsdto.ResultList, error) {
	defer s.observe("GetUserTeamResults", time.Now())

	known, err := s.refs.UserExists(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participant %d: %w", userID, err)
	}
	if !known {
		return nil, fmt.Errorf("participant %d: %w", userID, ErrUserNotFound)
	}

	teamIDs, err := s.refs.TeamIDsForUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	standings, err := s.teams.ListForTeams(ctx, nil, teamIDs)
	if err != nil {
		return nil, err
	}

	raceIDs := make([]sharedtypes.RaceID, 0, len(standings))
	for _, st := range standings {
		raceIDs = append(raceIDs, st.RaceID)
	}
	field, err := s.teams.ListForRaces(ctx, nil, raceIDs)
	if err != nil {
		return nil, err
	}
	totalsByRace := make(map[sharedtypes.RaceID][]float64, len(raceIDs))
	for _, r := range field {
		totalsByRace[r.RaceID] = append(totalsByRace[r.RaceID], r.AvgTotal)
	}

	rows := make([]resultsdto.HistoryRow, 0, len(standings))
	for _, st := range standings {
		if !resultsdomain.MatchesSearch(search, st.RaceName) {
			continue
		}
		totals := totalsByRace[st.RaceID]
		rows = append(rows, resultsdto.HistoryRow{
			RaceID:         int64(st.RaceID),
			RaceName:       st.RaceName,
			RaceDate:       st.RaceDate,
			Rank:           resultsdomain.CompetitionRank(st.AvgTotal, totals),
			RaceSize:       len(totals),
			TeamID:         int64(st.TeamID),
			TeamName:       st.TeamName,
			RawTime:        st.AvgRawTime,
			Penalty:        st.AvgPenalty,
			Total:          st.AvgTotal,
			RawTimeDisplay: resultsdomain.FormatSeconds(st.AvgRawTime),
			PenaltyDisplay: resultsdomain.FormatSeconds(st.AvgPenalty),
			TotalDisplay:   resultsdomain.FormatSeconds(st.AvgTotal),
		})
	}

	sortHistory(rows, sortBy)
	return &resultsdto.ResultList{Rows: rows}, nil
}

func sortHistory(rows []resultsdto.HistoryRow, sortBy resultsdto.SortDirection) {
	if sortBy == resultsdto.SortWorstFirst {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank > rows[j].Rank })
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
}
