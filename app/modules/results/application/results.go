package resultsservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// AddIndividualResult records (or overwrites) a single participant's result
// and refreshes the race's team averages in the same transaction.
func (s *ResultService) AddIndividualResult(ctx context.Context, userID sharedtypes.UserID, raceID sharedtypes.RaceID, rawTime, penalty float64) (*resultsdto.IndividualResultView, error) {
	defer s.observe("AddIndividualResult", time.Now())

	exists, err := s.refs.RaceExists(ctx, nil, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve race %d: %w", raceID, err)
	}
	if !exists {
		return nil, fmt.Errorf("race %d: %w", raceID, ErrRaceNotFound)
	}

	known, err := s.refs.UserExists(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participant %d: %w", userID, err)
	}
	if !known {
		return nil, fmt.Errorf("participant %d: %w", userID, ErrUserNotFound)
	}

	result := &resultsdb.IndividualResult{
		UserID:  userID,
		RaceID:  raceID,
		RawTime: rawTime,
		Penalty: penalty,
	}
	err = s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		if err := s.results.Upsert(ctx, idb, result); err != nil {
			return err
		}
		return s.recalculateTeamResults(ctx, idb, raceID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "individual result recorded",
		slog.Int64("user_id", int64(userID)),
		slog.Int64("race_id", int64(raceID)),
		slog.Float64("total", result.Total),
	)
	return &resultsdto.IndividualResultView{
		ResultID:      int64(result.ID),
		ParticipantID: int64(result.UserID),
		RaceID:        int64(result.RaceID),
		RawTime:       result.RawTime,
		Penalty:       result.Penalty,
		Total:         result.Total,
	}, nil
}

// DeleteIndividualResult removes a stored result and refreshes the affected
// race's team averages. It reports whether a row was deleted.
func (s *ResultService) DeleteIndividualResult(ctx context.Context, resultID sharedtypes.ResultID) (bool, error) {
	defer s.observe("DeleteIndividualResult", time.Now())

	deleted := false
	err := s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		result, err := s.results.GetByID(ctx, idb, resultID)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("result %d: %w", resultID, ErrResultNotFound)
		}

		deleted, err = s.results.Delete(ctx, idb, resultID)
		if err != nil {
			return err
		}
		return s.recalculateTeamResults(ctx, idb, result.RaceID)
	})
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "individual result deleted",
		slog.Int64("result_id", int64(resultID)),
	)
	return deleted, nil
}
