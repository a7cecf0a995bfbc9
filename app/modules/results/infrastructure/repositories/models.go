package resultsdb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// IndividualResult is one participant's outcome in one race. At most one row
// exists per (user_id, race_id); writes upsert on that key.
type IndividualResult struct {
	bun.BaseModel `bun:"table:individual_results,alias:ir"`

	ID      sharedtypes.ResultID `bun:"id,pk,autoincrement"`
	UserID  sharedtypes.UserID   `bun:"user_id,notnull"`
	RaceID  sharedtypes.RaceID   `bun:"race_id,notnull"`
	RawTime float64              `bun:"raw_time,notnull"`
	Penalty float64              `bun:"penalty,notnull,default:0"`
	Total   float64              `bun:"total,notnull"`
}

// Recompute derives the stored total from raw time and penalty. The total
// column is never trusted from callers.
func (r *IndividualResult) Recompute() {
	r.Total = r.RawTime + r.Penalty
}

// TeamResult is one team's derived (or imported) outcome in one race.
// At most one row exists per (team_id, race_id).
type TeamResult struct {
	bun.BaseModel `bun:"table:team_results,alias:tr"`

	ID          sharedtypes.ResultID         `bun:"id,pk,autoincrement"`
	TeamID      sharedtypes.TeamID           `bun:"team_id,notnull"`
	RaceID      sharedtypes.RaceID           `bun:"race_id,notnull"`
	AvgRawTime  float64                      `bun:"avg_raw_time,notnull"`
	AvgPenalty  float64                      `bun:"avg_penalty,notnull"`
	AvgTotal    float64                      `bun:"avg_total,notnull"`
	MemberCount int                          `bun:"member_count,notnull"`
	Status      sharedtypes.TeamStatus       `bun:"status,nullzero"`
	Category    string                       `bun:"category,nullzero"`
	Equipment   string                       `bun:"equipment,nullzero"`
	Source      sharedtypes.TeamResultSource `bun:"source,notnull,default:'aggregate'"`
}

// Race, User, Team and Participation are owned by the event-management
// modules; the results engine only reads them.

type Race struct {
	bun.BaseModel `bun:"table:races,alias:r"`

	ID        sharedtypes.RaceID `bun:"id,pk"`
	Name      string             `bun:"name,notnull"`
	StartDate time.Time          `bun:"start_date,nullzero"`
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          sharedtypes.UserID `bun:"id,pk"`
	DisplayName string             `bun:"display_name,notnull"`
	Public      bool               `bun:"public,notnull,default:true"`
}

type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID   sharedtypes.TeamID `bun:"id,pk"`
	Name string             `bun:"name,notnull"`
}

// Participation associates a participant with a team for one race.
type Participation struct {
	bun.BaseModel `bun:"table:participations,alias:p"`

	ID     int64              `bun:"id,pk,autoincrement"`
	UserID sharedtypes.UserID `bun:"user_id,notnull"`
	TeamID sharedtypes.TeamID `bun:"team_id,notnull"`
	RaceID sharedtypes.RaceID `bun:"race_id,notnull"`
}

// IndividualStanding is an individual result joined with its participant and
// race for display.
type IndividualStanding struct {
	ResultID    sharedtypes.ResultID `bun:"result_id"`
	UserID      sharedtypes.UserID   `bun:"user_id"`
	RaceID      sharedtypes.RaceID   `bun:"race_id"`
	RawTime     float64              `bun:"raw_time"`
	Penalty     float64              `bun:"penalty"`
	Total       float64              `bun:"total"`
	DisplayName string               `bun:"display_name"`
	RaceName    string               `bun:"race_name"`
	RaceDate    time.Time            `bun:"race_date"`
	Public      bool                 `bun:"public"`
}

// TeamStanding is a team result joined with its team and race for display.
type TeamStanding struct {
	ResultID    sharedtypes.ResultID         `bun:"result_id"`
	TeamID      sharedtypes.TeamID           `bun:"team_id"`
	RaceID      sharedtypes.RaceID           `bun:"race_id"`
	AvgRawTime  float64                      `bun:"avg_raw_time"`
	AvgPenalty  float64                      `bun:"avg_penalty"`
	AvgTotal    float64                      `bun:"avg_total"`
	MemberCount int                          `bun:"member_count"`
	Status      sharedtypes.TeamStatus       `bun:"status"`
	Category    string                       `bun:"category"`
	Equipment   string                       `bun:"equipment"`
	Source      sharedtypes.TeamResultSource `bun:"source"`
	TeamName    string                       `bun:"team_name"`
	RaceName    string                       `bun:"race_name"`
	RaceDate    time.Time                    `bun:"race_date"`
}

// MemberResult pairs an individual result with the member's team for the
// race, as produced by the participation join used during aggregation.
type MemberResult struct {
	TeamID  sharedtypes.TeamID `bun:"team_id"`
	UserID  sharedtypes.UserID `bun:"user_id"`
	RawTime float64            `bun:"raw_time"`
	Penalty float64            `bun:"penalty"`
	Total   float64            `bun:"total"`
}
