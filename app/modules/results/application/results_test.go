package resultsservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

func TestAddIndividualResult(t *testing.T) {
	raceID := sharedtypes.RaceID(1)

	seed := func() (*fakeStore, *ResultService) {
		store := newFakeStore()
		store.addRace(raceID, "Trail des Cimes")
		store.addUser(1, "Alice Martin", true)
		store.addUser(2, "Bruno Keller", true)
		store.addTeam(5, "Les Marmottes")
		store.addMembership(1, 5, raceID)
		store.addMembership(2, 5, raceID)
		return store, newTestService(store)
	}

	t.Run("stores the derived total and refreshes team averages", func(t *testing.T) {
		store, svc := seed()

		view, err := svc.AddIndividualResult(context.Background(), 1, raceID, 3600, 30)
		require.NoError(t, err)
		require.NotZero(t, view.ResultID)
		require.InDelta(t, 3630, view.Total, 0.001)

		team := store.teamResults[teamKey(5, raceID)]
		require.NotNil(t, team)
		require.Equal(t, 1, team.MemberCount)
		require.InDelta(t, 3630, team.AvgTotal, 0.001)

		_, err = svc.AddIndividualResult(context.Background(), 2, raceID, 3700, 0)
		require.NoError(t, err)

		team = store.teamResults[teamKey(5, raceID)]
		require.Equal(t, 2, team.MemberCount)
		require.InDelta(t, (3630.0+3700.0)/2, team.AvgTotal, 0.001)
	})

	t.Run("overwrites an existing result for the same race", func(t *testing.T) {
		store, svc := seed()

		first, err := svc.AddIndividualResult(context.Background(), 1, raceID, 3600, 0)
		require.NoError(t, err)
		second, err := svc.AddIndividualResult(context.Background(), 1, raceID, 3500, 0)
		require.NoError(t, err)

		require.Equal(t, first.ResultID, second.ResultID)
		require.Len(t, store.individual, 1)
		require.InDelta(t, 3500, store.teamResults[teamKey(5, raceID)].AvgTotal, 0.001)
	})

	t.Run("unknown race rejected", func(t *testing.T) {
		_, svc := seed()
		_, err := svc.AddIndividualResult(context.Background(), 1, 42, 3600, 0)
		require.ErrorIs(t, err, ErrRaceNotFound)
	})

	t.Run("unknown participant rejected", func(t *testing.T) {
		_, svc := seed()
		_, err := svc.AddIndividualResult(context.Background(), 99, raceID, 3600, 0)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteIndividualResult(t *testing.T) {
	raceID := sharedtypes.RaceID(1)

	seed := func() (*fakeStore, *ResultService) {
		store := newFakeStore()
		store.addRace(raceID, "Trail des Cimes")
		store.addUser(1, "Alice Martin", true)
		store.addUser(2, "Bruno Keller", true)
		store.addTeam(5, "Les Marmottes")
		store.addMembership(1, 5, raceID)
		store.addMembership(2, 5, raceID)
		return store, newTestService(store)
	}

	t.Run("removes the row and refreshes team averages", func(t *testing.T) {
		store, svc := seed()

		_, err := svc.AddIndividualResult(context.Background(), 1, raceID, 3600, 0)
		require.NoError(t, err)
		doomed, err := svc.AddIndividualResult(context.Background(), 2, raceID, 4000, 0)
		require.NoError(t, err)

		deleted, err := svc.DeleteIndividualResult(context.Background(), sharedtypes.ResultID(doomed.ResultID))
		require.NoError(t, err)
		require.True(t, deleted)
		require.Len(t, store.individual, 1)

		team := store.teamResults[teamKey(5, raceID)]
		require.Equal(t, 1, team.MemberCount)
		require.InDelta(t, 3600, team.AvgTotal, 0.001)
	})

	t.Run("missing result reported", func(t *testing.T) {
		_, svc := seed()
		_, err := svc.DeleteIndividualResult(context.Background(), 999)
		require.ErrorIs(t, err, ErrResultNotFound)
	})
}
