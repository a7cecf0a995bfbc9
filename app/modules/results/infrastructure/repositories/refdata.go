package resultsdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// ReferenceDBImpl implements ReferenceRepository on bun. It only ever reads;
// races, users, teams and participations are owned by other modules.
type ReferenceDBImpl struct {
	DB *bun.DB
}

func (db *ReferenceDBImpl) conn(idb bun.IDB) bun.IDB {
	if idb != nil {
		return idb
	}
	return db.DB
}

func (db *ReferenceDBImpl) RaceExists(ctx context.Context, idb bun.IDB, id sharedtypes.RaceID) (bool, error) {
	exists, err := db.conn(idb).NewSelect().
		Model((*Race)(nil)).
		Where("r.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check race %d: %w", id, err)
	}
	return exists, nil
}

func (db *ReferenceDBImpl) UserExists(ctx context.Context, idb bun.IDB, id sharedtypes.UserID) (bool, error) {
	exists, err := db.conn(idb).NewSelect().
		Model((*User)(nil)).
		Where("u.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user %d: %w", id, err)
	}
	return exists, nil
}

func (db *ReferenceDBImpl) TeamExists(ctx context.Context, idb bun.IDB, id sharedtypes.TeamID) (bool, error) {
	exists, err := db.conn(idb).NewSelect().
		Model((*Team)(nil)).
		Where("t.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check team %d: %w", id, err)
	}
	return exists, nil
}

func (db *ReferenceDBImpl) MemberResults(ctx context.Context, idb bun.IDB, raceID sharedtypes.RaceID) ([]MemberResult, error) {
	var rows []MemberResult
	err := db.conn(idb).NewSelect().
		Model((*IndividualResult)(nil)).
		ColumnExpr("p.team_id AS team_id").
		ColumnExpr("ir.user_id, ir.raw_time, ir.penalty, ir.total").
		Join("JOIN participations AS p ON p.user_id = ir.user_id AND p.race_id = ir.race_id").
		Where("ir.race_id = ?", raceID).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to join member results for race %d: %w", raceID, err)
	}
	return rows, nil
}

func (db *ReferenceDBImpl) TeamIDsForUser(ctx context.Context, idb bun.IDB, userID sharedtypes.UserID) ([]sharedtypes.TeamID, error) {
	var ids []sharedtypes.TeamID
	err := db.conn(idb).NewSelect().
		Model((*Participation)(nil)).
		ColumnExpr("DISTINCT p.team_id").
		Where("p.user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user %d: %w", userID, err)
	}
	return ids, nil
}
