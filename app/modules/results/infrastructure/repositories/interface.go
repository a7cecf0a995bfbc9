package resultsdb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// Every method takes a bun.IDB so it can run against the pool or inside a
// caller-owned transaction; nil means the repository's own connection.

// IndividualResultRepository persists per-participant results.
type IndividualResultRepository interface {
	Upsert(ctx context.Context, idb bun.IDB, result *IndividualResult) error
	GetByID(ctx context.Context, idb bun.IDB, id sharedtypes.ResultID) (*IndividualResult, error)
	Delete(ctx context.Context, idb bun.IDB, id sharedtypes.ResultID) (bool, error)
	// ListStandings returns joined display rows. A nil raceID spans all
	// races; onlyPublic drops participants whose profile is not public.
	ListStandings(ctx context.Context, idb bun.IDB, raceID *sharedtypes.RaceID, onlyPublic bool) ([]IndividualStanding, error)
	ListForUser(ctx context.Context, idb bun.IDB, userID sharedtypes.UserID) ([]IndividualStanding, error)
	// ListForRaces returns the raw result rows of the given races, used to
	// rank a participant against the whole field of each race.
	ListForRaces(ctx context.Context, idb bun.IDB, raceIDs []sharedtypes.RaceID) ([]IndividualResult, error)
}

// TeamResultRepository persists per-team results.
type TeamResultRepository interface {
	// UpsertImported writes a trusted row from a bulk team import,
	// including classification fields.
	UpsertImported(ctx context.Context, idb bun.IDB, result *TeamResult) error
	// UpsertAggregate writes recomputed averages and member count without
	// touching classification fields already on the row.
	UpsertAggregate(ctx context.Context, idb bun.IDB, result *TeamResult) error
	ListStandings(ctx context.Context, idb bun.IDB, raceID *sharedtypes.RaceID) ([]TeamStanding, error)
	ListForTeams(ctx context.Context, idb bun.IDB, teamIDs []sharedtypes.TeamID) ([]TeamStanding, error)
	ListForRaces(ctx context.Context, idb bun.IDB, raceIDs []sharedtypes.RaceID) ([]TeamResult, error)
}

// ReferenceRepository reads the entities owned by the event-management
// modules: races, users, teams and the participation mapping.
type ReferenceRepository interface {
	RaceExists(ctx context.Context, idb bun.IDB, id sharedtypes.RaceID) (bool, error)
	UserExists(ctx context.Context, idb bun.IDB, id sharedtypes.UserID) (bool, error)
	TeamExists(ctx context.Context, idb bun.IDB, id sharedtypes.TeamID) (bool, error)
	// MemberResults joins a race's individual results to the participation
	// mapping, yielding each contributing member's row with its team.
	MemberResults(ctx context.Context, idb bun.IDB, raceID sharedtypes.RaceID) ([]MemberResult, error)
	// TeamIDsForUser returns every team the user has raced with.
	TeamIDsForUser(ctx context.Context, idb bun.IDB, userID sharedtypes.UserID) ([]sharedtypes.TeamID, error)
}
