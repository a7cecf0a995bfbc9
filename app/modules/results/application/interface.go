package resultsservice

import (
	"context"
	"io"

	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// Kind selects individual or team standings.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindTeam       Kind = "team"
)

// Service is the results engine as consumed by the HTTP layer.
type Service interface {
	ImportIndividualResults(ctx context.Context, raceID sharedtypes.RaceID, file io.Reader) (*resultsdto.ImportReport, error)
	ImportTeamResults(ctx context.Context, raceID sharedtypes.RaceID, file io.Reader) (*resultsdto.ImportReport, error)

	AddIndividualResult(ctx context.Context, userID sharedtypes.UserID, raceID sharedtypes.RaceID, rawTime, penalty float64) (*resultsdto.IndividualResultView, error)
	DeleteIndividualResult(ctx context.Context, resultID sharedtypes.ResultID) (bool, error)

	GetIndividualLeaderboard(ctx context.Context, raceID sharedtypes.RaceID, search string, page, pageSize int) (*resultsdto.PagedResult, error)
	GetTeamLeaderboard(ctx context.Context, raceID sharedtypes.RaceID, search string, page, pageSize int) (*resultsdto.PagedResult, error)
	GetPublicLeaderboard(ctx context.Context, raceID *sharedtypes.RaceID, search string, kind Kind, page, pageSize int) (*resultsdto.PagedResult, error)

	GetUserResults(ctx context.Context, userID sharedtypes.UserID, search string, sortBy resultsdto.SortDirection) (*resultsdto.ResultList, error)
	GetUserTeamResults(ctx context.Context, userID sharedtypes.UserID, search string, sortBy resultsdto.SortDirection) (*resultsdto.ResultList, error)

	ExportCSV(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]byte, error)
	ExportXLSX(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]byte, error)
	GenerateStandingsChart(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]byte, error)
}
