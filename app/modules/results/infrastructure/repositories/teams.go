package resultsdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// TeamResultDBImpl implements TeamResultRepository on bun.
type TeamResultDBImpl struct {
	DB *bun.DB
}

func (db *TeamResultDBImpl) conn(idb bun.IDB) bun.IDB {
	if idb != nil {
		return idb
	}
	return db.DB
}

func (db *TeamResultDBImpl) UpsertImported(ctx context.Context, idb bun.IDB, result *TeamResult) error {
	result.Source = sharedtypes.SourceImport
	result.AvgTotal = result.AvgRawTime + result.AvgPenalty

	_, err := db.conn(idb).NewInsert().
		Model(result).
		On("CONFLICT (team_id, race_id) DO UPDATE").
		Set("avg_raw_time = EXCLUDED.avg_raw_time, avg_penalty = EXCLUDED.avg_penalty, avg_total = EXCLUDED.avg_total").
		Set("member_count = EXCLUDED.member_count, status = EXCLUDED.status, category = EXCLUDED.category").
		Set("equipment = EXCLUDED.equipment, source = EXCLUDED.source").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert imported result for team %d in race %d: %w", result.TeamID, result.RaceID, err)
	}
	return nil
}

func (db *TeamResultDBImpl) UpsertAggregate(ctx context.Context, idb bun.IDB, result *TeamResult) error {
	result.Source = sharedtypes.SourceAggregate

	// Classification fields are deliberately left out of the conflict
	// update: recomputing averages must not wipe a status set elsewhere.
	_, err := db.conn(idb).NewInsert().
		Model(result).
		On("CONFLICT (team_id, race_id) DO UPDATE").
		Set("avg_raw_time = EXCLUDED.avg_raw_time, avg_penalty = EXCLUDED.avg_penalty, avg_total = EXCLUDED.avg_total").
		Set("member_count = EXCLUDED.member_count, source = EXCLUDED.source").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert aggregate result for team %d in race %d: %w", result.TeamID, result.RaceID, err)
	}
	return nil
}

func (db *TeamResultDBImpl) ListStandings(ctx context.Context, idb bun.IDB, raceID *sharedtypes.RaceID) ([]TeamStanding, error) {
	q := db.standingsQuery(idb)
	if raceID != nil {
		q = q.Where("tr.race_id = ?", *raceID)
	}

	var rows []TeamStanding
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list team standings: %w", err)
	}
	return rows, nil
}

func (db *TeamResultDBImpl) ListForTeams(ctx context.Context, idb bun.IDB, teamIDs []sharedtypes.TeamID) ([]TeamStanding, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	var rows []TeamStanding
	err := db.standingsQuery(idb).
		Where("tr.team_id IN (?)", bun.In(teamIDs)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for teams: %w", err)
	}
	return rows, nil
}

func (db *TeamResultDBImpl) ListForRaces(ctx context.Context, idb bun.IDB, raceIDs []sharedtypes.RaceID) ([]TeamResult, error) {
	if len(raceIDs) == 0 {
		return nil, nil
	}

	var rows []TeamResult
	err := db.conn(idb).NewSelect().
		Model(&rows).
		Where("tr.race_id IN (?)", bun.In(raceIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team results for races: %w", err)
	}
	return rows, nil
}

func (db *TeamResultDBImpl) standingsQuery(idb bun.IDB) *bun.SelectQuery {
	return db.conn(idb).NewSelect().
		Model((*TeamResult)(nil)).
		ColumnExpr("tr.id AS result_id, tr.team_id, tr.race_id, tr.avg_raw_time, tr.avg_penalty, tr.avg_total").
		ColumnExpr("tr.member_count, tr.status, tr.category, tr.equipment, tr.source").
		ColumnExpr("t.name AS team_name").
		ColumnExpr("r.name AS race_name, r.start_date AS race_date").
		Join("JOIN teams AS t ON t.id = tr.team_id").
		Join("JOIN races AS r ON r.id = tr.race_id")
}
