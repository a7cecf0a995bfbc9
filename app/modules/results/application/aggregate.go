package resultsservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// RecalculateTeamResults rebuilds every team's averages for a race from the
// current individual results of its members. It runs after every import,
// single-result add and delete.
func (s *ResultService) RecalculateTeamResults(ctx context.Context, raceID sharedtypes.RaceID) error {
	defer s.observe("RecalculateTeamResults", time.Now())
	return s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		return s.recalculateTeamResults(ctx, idb, raceID)
	})
}

func (s *ResultService) recalculateTeamResults(ctx context.Context, idb bun.IDB, raceID sharedtypes.RaceID) error {
	members, err := s.refs.MemberResults(ctx, idb, raceID)
	if err != nil {
		return fmt.Errorf("aggregation for race %d: %w", raceID, err)
	}

	groups := make(map[sharedtypes.TeamID][]resultsdb.MemberResult)
	for _, m := range members {
		groups[m.TeamID] = append(groups[m.TeamID], m)
	}

	// Teams with no contributing members are left untouched.
	for teamID, group := range groups {
		var sumRaw, sumPenalty, sumTotal float64
		for _, m := range group {
			sumRaw += m.RawTime
			sumPenalty += m.Penalty
			// The average total is taken over per-row totals rather than
			// recombined from the other two averages.
			sumTotal += m.Total
		}

		n := float64(len(group))
		result := &resultsdb.TeamResult{
			TeamID:      teamID,
			RaceID:      raceID,
			AvgRawTime:  sumRaw / n,
			AvgPenalty:  sumPenalty / n,
			AvgTotal:    sumTotal / n,
			MemberCount: len(group),
		}
		if err := s.teams.UpsertAggregate(ctx, idb, result); err != nil {
			return fmt.Errorf("aggregation for race %d: %w", raceID, err)
		}
	}

	s.logger.DebugContext(ctx, "team averages recalculated",
		slog.Int64("race_id", int64(raceID)),
		slog.Int("teams", len(groups)),
		slog.Int("member_results", len(members)),
	)
	return nil
}
