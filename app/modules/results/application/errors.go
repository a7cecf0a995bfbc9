package resultsservice

import "errors"

// Referenced entities that do not exist abort the operation immediately.
var (
	ErrRaceNotFound   = errors.New("race not found")
	ErrUserNotFound   = errors.New("participant not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrResultNotFound = errors.New("result not found")
)

// File-level import failures; surfaced before any row is processed.
var (
	ErrEmptyImport   = errors.New("import file has no readable header")
	ErrMissingColumn = errors.New("missing required column")
)

// ErrInvalidKind indicates an unknown standings kind (not "individual" or
// "team").
var ErrInvalidKind = errors.New("invalid standings kind")

// ErrNoResults indicates there is nothing to export or chart for the race.
var ErrNoResults = errors.New("no results for race")
