package resultsservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	resultsdomain "github.com/Infuseting/SAE301-sub003/app/modules/results/domain"
	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// Leaderboard views order by ascending total and assign the sequential
// positional rank: (page-1)*pageSize + position + 1. Equal totals get
// consecutive ranks, never shared ones; the tie-aware discipline lives in
// the history view only.

// GetIndividualLeaderboard returns one page of a race's individual standings.
func (s *ResultService) GetIndividualLeaderboard(ctx context.Context, raceID sharedtypes.RaceID, search string, page, pageSize int) (*resultsdto.PagedResult, error) {
	defer s.observe("GetIndividualLeaderboard", time.Now())

	if err := s.requireRace(ctx, raceID); err != nil {
		return nil, err
	}
	standings, err := s.results.ListStandings(ctx, nil, &raceID, false)
	if err != nil {
		return nil, err
	}
	return pageIndividuals(standings, search, page, pageSize), nil
}

// GetTeamLeaderboard returns one page of a race's team standings.
func (s *ResultService) GetTeamLeaderboard(ctx context.Context, raceID sharedtypes.RaceID, search string, page, pageSize int) (*resultsdto.PagedResult, error) {
	defer s.observe("GetTeamLeaderboard", time.Now())

	if err := s.requireRace(ctx, raceID); err != nil {
		return nil, err
	}
	standings, err := s.teams.ListStandings(ctx, nil, &raceID)
	if err != nil {
		return nil, err
	}
	return pageTeams(standings, search, page, pageSize), nil
}

// GetPublicLeaderboard is the unauthenticated view: optionally scoped to a
// race, and individual standings exclude participants whose profile is not
// public.
func (s *ResultService) GetPublicLeaderboard(ctx context.Context, raceID *sharedtypes.RaceID, search string, kind Kind, page, pageSize int) (*resultsdto.PagedResult, error) {
	defer s.observe("GetPublicLeaderboard", time.Now())

	if raceID != nil {
		if err := s.requireRace(ctx, *raceID); err != nil {
			return nil, err
		}
	}

	switch kind {
	case KindIndividual:
		standings, err := s.results.ListStandings(ctx, nil, raceID, true)
		if err != nil {
			return nil, err
		}
		return pageIndividuals(standings, search, page, pageSize), nil
	case KindTeam:
		standings, err := s.teams.ListStandings(ctx, nil, raceID)
		if err != nil {
			return nil, err
		}
		return pageTeams(standings, search, page, pageSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
}

func (s *ResultService) requireRace(ctx context.Context, raceID sharedtypes.RaceID) error {
	exists, err := s.refs.RaceExists(ctx, nil, raceID)
	if err != nil {
		return fmt.Errorf("failed to resolve race %d: %w", raceID, err)
	}
	if !exists {
		return fmt.Errorf("race %d: %w", raceID, ErrRaceNotFound)
	}
	return nil
}

// buildIndividualRows filters, sorts and rank-annotates the full standings.
// Ranks are global, so a contiguous page window keeps the sequential-rank
// property across pages.
func buildIndividualRows(standings []resultsdb.IndividualStanding, search string) []resultsdto.LeaderboardRow {
	filtered := standings[:0:0]
	for _, st := range standings {
		if resultsdomain.MatchesSearch(search, st.DisplayName, st.RaceName) {
			filtered = append(filtered, st)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Total < filtered[j].Total })

	rows := make([]resultsdto.LeaderboardRow, 0, len(filtered))
	for i, st := range filtered {
		rows = append(rows, resultsdto.LeaderboardRow{
			Rank:           resultsdomain.SequentialRank(1, 0, i),
			ParticipantID:  int64(st.UserID),
			DisplayName:    st.DisplayName,
			RaceID:         int64(st.RaceID),
			RaceName:       st.RaceName,
			RawTime:        st.RawTime,
			Penalty:        st.Penalty,
			Total:          st.Total,
			RawTimeDisplay: resultsdomain.FormatSeconds(st.RawTime),
			PenaltyDisplay: resultsdomain.FormatSeconds(st.Penalty),
			TotalDisplay:   resultsdomain.FormatSeconds(st.Total),
		})
	}
	return rows
}

func buildTeamRows(standings []resultsdb.TeamStanding, search string) []resultsdto.LeaderboardRow {
	filtered := standings[:0:0]
	for _, st := range standings {
		if resultsdomain.MatchesSearch(search, st.TeamName, st.RaceName) {
			filtered = append(filtered, st)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].AvgTotal < filtered[j].AvgTotal })

	rows := make([]resultsdto.LeaderboardRow, 0, len(filtered))
	for i, st := range filtered {
		rows = append(rows, resultsdto.LeaderboardRow{
			Rank:           resultsdomain.SequentialRank(1, 0, i),
			TeamID:         int64(st.TeamID),
			DisplayName:    st.TeamName,
			RaceID:         int64(st.RaceID),
			RaceName:       st.RaceName,
			RawTime:        st.AvgRawTime,
			Penalty:        st.AvgPenalty,
			Total:          st.AvgTotal,
			RawTimeDisplay: resultsdomain.FormatSeconds(st.AvgRawTime),
			PenaltyDisplay: resultsdomain.FormatSeconds(st.AvgPenalty),
			TotalDisplay:   resultsdomain.FormatSeconds(st.AvgTotal),
			MemberCount:    st.MemberCount,
			Status:         string(st.Status),
		})
	}
	return rows
}

func pageIndividuals(standings []resultsdb.IndividualStanding, search string, page, pageSize int) *resultsdto.PagedResult {
	rows := buildIndividualRows(standings, search)
	page, pageSize = normalizePaging(page, pageSize)
	window := resultsdomain.Paginate(rows, page, pageSize)
	return pagedResult(window, page, pageSize, len(rows))
}

func pageTeams(standings []resultsdb.TeamStanding, search string, page, pageSize int) *resultsdto.PagedResult {
	rows := buildTeamRows(standings, search)
	page, pageSize = normalizePaging(page, pageSize)
	window := resultsdomain.Paginate(rows, page, pageSize)
	return pagedResult(window, page, pageSize, len(rows))
}

func pagedResult(rows []resultsdto.LeaderboardRow, page, pageSize, total int) *resultsdto.PagedResult {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &resultsdto.PagedResult{
		Rows:       rows,
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: totalPages,
	}
}
