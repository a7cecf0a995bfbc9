package resultsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// IndividualResultDBImpl implements IndividualResultRepository on bun.
type IndividualResultDBImpl struct {
	DB *bun.DB
}

func (db *IndividualResultDBImpl) conn(idb bun.IDB) bun.IDB {
	if idb != nil {
		return idb
	}
	return db.DB
}

func (db *IndividualResultDBImpl) Upsert(ctx context.Context, idb bun.IDB, result *IndividualResult) error {
	result.Recompute()

	_, err := db.conn(idb).NewInsert().
		Model(result).
		On("CONFLICT (user_id, race_id) DO UPDATE").
		Set("raw_time = EXCLUDED.raw_time, penalty = EXCLUDED.penalty, total = EXCLUDED.total").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert result for user %d in race %d: %w", result.UserID, result.RaceID, err)
	}
	return nil
}

func (db *IndividualResultDBImpl) GetByID(ctx context.Context, idb bun.IDB, id sharedtypes.ResultID) (*IndividualResult, error) {
	result := new(IndividualResult)
	err := db.conn(idb).NewSelect().
		Model(result).
		Where("ir.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch result %d: %w", id, err)
	}
	return result, nil
}

func (db *IndividualResultDBImpl) Delete(ctx context.Context, idb bun.IDB, id sharedtypes.ResultID) (bool, error) {
	res, err := db.conn(idb).NewDelete().
		Model((*IndividualResult)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete result %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for result %d: %w", id, err)
	}
	return n > 0, nil
}

func (db *IndividualResultDBImpl) ListStandings(ctx context.Context, idb bun.IDB, raceID *sharedtypes.RaceID, onlyPublic bool) ([]IndividualStanding, error) {
	q := db.standingsQuery(idb)
	if raceID != nil {
		q = q.Where("ir.race_id = ?", *raceID)
	}
	if onlyPublic {
		q = q.Where("u.public = TRUE")
	}

	var rows []IndividualStanding
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list individual standings: %w", err)
	}
	return rows, nil
}

func (db *IndividualResultDBImpl) ListForUser(ctx context.Context, idb bun.IDB, userID sharedtypes.UserID) ([]IndividualStanding, error) {
	var rows []IndividualStanding
	err := db.standingsQuery(idb).
		Where("ir.user_id = ?", userID).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for user %d: %w", userID, err)
	}
	return rows, nil
}

func (db *IndividualResultDBImpl) ListForRaces(ctx context.Context, idb bun.IDB, raceIDs []sharedtypes.RaceID) ([]IndividualResult, error) {
	if len(raceIDs) == 0 {
		return nil, nil
	}

	var rows []IndividualResult
	err := db.conn(idb).NewSelect().
		Model(&rows).
		Where("ir.race_id IN (?)", bun.In(raceIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for races: %w", err)
	}
	return rows, nil
}

func (db *IndividualResultDBImpl) standingsQuery(idb bun.IDB) *bun.SelectQuery {
	return db.conn(idb).NewSelect().
		Model((*IndividualResult)(nil)).
		ColumnExpr("ir.id AS result_id, ir.user_id, ir.race_id, ir.raw_time, ir.penalty, ir.total").
		ColumnExpr("u.display_name AS display_name, u.public AS public").
		ColumnExpr("r.name AS race_name, r.start_date AS race_date").
		Join("JOIN users AS u ON u.id = ir.user_id").
		Join("JOIN races AS r ON r.id = ir.race_id")
}
