package resultsservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

func TestGetUserResults(t *testing.T) {
	race1 := sharedtypes.RaceID(1)
	race2 := sharedtypes.RaceID(2)

	seed := func(t *testing.T) *ResultService {
		t.Helper()
		store := newFakeStore()
		store.addRace(race1, "Trail des Cimes")
		store.addRace(race2, "Nocturne du Lac")
		store.addUser(1, "Alice Martin", true)
		store.addUser(2, "Bruno Keller", true)
		store.addUser(3, "Chloe Dupont", true)
		svc := newTestService(store)

		// Race 1: Alice and Bruno tie at 3600, Chloe trails.
		for userID, total := range map[sharedtypes.UserID]float64{1: 3600, 2: 3600, 3: 3700} {
			_, err := svc.AddIndividualResult(context.Background(), userID, race1, total, 0)
			require.NoError(t, err)
		}
		// Race 2: Alice alone, mid-pack irrelevant.
		_, err := svc.AddIndividualResult(context.Background(), 1, race2, 5000, 0)
		require.NoError(t, err)
		return svc
	}

	t.Run("tied totals share a rank and the next skips", func(t *testing.T) {
		svc := seed(t)

		alice, err := svc.GetUserResults(context.Background(), 1, "", resultsdto.SortBestFirst)
		require.NoError(t, err)
		require.Len(t, alice.Rows, 2)

		byRace := make(map[int64]resultsdto.HistoryRow)
		for _, row := range alice.Rows {
			byRace[row.RaceID] = row
		}
		require.Equal(t, 1, byRace[int64(race1)].Rank)
		require.Equal(t, 3, byRace[int64(race1)].RaceSize)

		bruno, err := svc.GetUserResults(context.Background(), 2, "", resultsdto.SortBestFirst)
		require.NoError(t, err)
		require.Equal(t, 1, bruno.Rows[0].Rank)

		chloe, err := svc.GetUserResults(context.Background(), 3, "", resultsdto.SortBestFirst)
		require.NoError(t, err)
		require.Equal(t, 3, chloe.Rows[0].Rank)
	})

	t.Run("sort directions order by rank", func(t *testing.T) {
		svc := seed(t)

		best, err := svc.GetUserResults(context.Background(), 1, "", resultsdto.SortBestFirst)
		require.NoError(t, err)
		require.Len(t, best.Rows, 2)
		require.LessOrEqual(t, best.Rows[0].Rank, best.Rows[1].Rank)

		worst, err := svc.GetUserResults(context.Background(), 1, "", resultsdto.SortWorstFirst)
		require.NoError(t, err)
		require.GreaterOrEqual(t, worst.Rows[0].Rank, worst.Rows[1].Rank)
	})

	t.Run("search filters by race name", func(t *testing.T) {
		svc := seed(t)

		out, err := svc.GetUserResults(context.Background(), 1, "lac", resultsdto.SortBestFirst)
		require.NoError(t, err)
		require.Len(t, out.Rows, 1)
		require.Equal(t, "Nocturne du Lac", out.Rows[0].RaceName)
	})

	t.Run("unknown participant rejected", func(t *testing.T) {
		svc := seed(t)
		_, err := svc.GetUserResults(context.Background(), 99, "", resultsdto.SortBestFirst)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGetUserTeamResults(t *testing.T) {
	race1 := sharedtypes.RaceID(1)
	race2 := sharedtypes.RaceID(2)

	store := newFakeStore()
	store.addRace(race1, "Trail des Cimes")
	store.addRace(race2, "Nocturne du Lac")
	store.addTeam(5, "Les Marmottes")
	store.addTeam(6, "Rocky Squad")
	store.addTeam(7, "Nightowls")
	store.addUser(1, "Alice Martin", true)
	store.addUser(2, "Bruno Keller", true)
	store.addUser(3, "Chloe Dupont", true)
	// Alice races with Les Marmottes in race 1 and Nightowls in race 2.
	store.addMembership(1, 5, race1)
	store.addMembership(2, 6, race1)
	store.addMembership(1, 7, race2)
	store.addMembership(3, 7, race2)
	svc := newTestService(store)

	_, err := svc.AddIndividualResult(context.Background(), 1, race1, 3700, 0)
	require.NoError(t, err)
	_, err = svc.AddIndividualResult(context.Background(), 2, race1, 3600, 0)
	require.NoError(t, err)
	_, err = svc.AddIndividualResult(context.Background(), 1, race2, 5000, 0)
	require.NoError(t, err)
	_, err = svc.AddIndividualResult(context.Background(), 3, race2, 5200, 0)
	require.NoError(t, err)

	out, err := svc.GetUserTeamResults(context.Background(), 1, "", resultsdto.SortBestFirst)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	byTeam := make(map[string]resultsdto.HistoryRow)
	for _, row := range out.Rows {
		byTeam[row.TeamName] = row
	}
	// Nightowls is the only team of race 2; Les Marmottes lost race 1.
	require.Equal(t, 1, byTeam["Nightowls"].Rank)
	require.Equal(t, 1, byTeam["Nightowls"].RaceSize)
	require.InDelta(t, 5100, byTeam["Nightowls"].Total, 0.001)
	require.Equal(t, 2, byTeam["Les Marmottes"].Rank)
	require.Equal(t, 2, byTeam["Les Marmottes"].RaceSize)

	// Best-first puts the winning row ahead.
	require.Equal(t, "Nightowls", out.Rows[0].TeamName)
}
