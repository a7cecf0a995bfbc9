// Package sharedtypes holds identifier and enum types shared across modules.
package sharedtypes

// RaceID identifies a single timed event within a raid.
type RaceID int64

// UserID identifies a participant.
type UserID int64

// TeamID identifies a team.
type TeamID int64

// ResultID identifies a stored result row.
type ResultID int64

// TeamResultSource records how a team result row was produced.
type TeamResultSource string

const (
	// SourceAggregate marks averages derived from member results.
	SourceAggregate TeamResultSource = "aggregate"
	// SourceImport marks averages trusted from a bulk team import.
	SourceImport TeamResultSource = "import"
)

// TeamStatus is the classification of a team's run in a race.
type TeamStatus string

const (
	TeamClassified   TeamStatus = "classified"
	TeamAbandoned    TeamStatus = "abandoned"
	TeamDisqualified TeamStatus = "disqualified"
	TeamOutOfRanking TeamStatus = "out_of_ranking"
)
