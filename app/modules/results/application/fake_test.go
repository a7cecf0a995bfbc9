package resultsservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// newTestService wires a service to the given fake store, without a database
// or metrics and with logging discarded.
func newTestService(store *fakeStore) *ResultService {
	return NewResultService(
		fakeIndividualRepo{store},
		fakeTeamRepo{store},
		fakeReferenceRepo{store},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		nil,
	)
}

// fakeStore holds in-memory state shared by the three fake repositories.
// The bun.IDB arguments are ignored.
type fakeStore struct {
	races          map[sharedtypes.RaceID]resultsdb.Race
	users          map[sharedtypes.UserID]resultsdb.User
	teams          map[sharedtypes.TeamID]resultsdb.Team
	participations []resultsdb.Participation

	individual  map[string]*resultsdb.IndividualResult
	teamResults map[string]*resultsdb.TeamResult
	nextID      sharedtypes.ResultID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		races:       make(map[sharedtypes.RaceID]resultsdb.Race),
		users:       make(map[sharedtypes.UserID]resultsdb.User),
		teams:       make(map[sharedtypes.TeamID]resultsdb.Team),
		individual:  make(map[string]*resultsdb.IndividualResult),
		teamResults: make(map[string]*resultsdb.TeamResult),
	}
}

func (f *fakeStore) addRace(id sharedtypes.RaceID, name string) {
	f.races[id] = resultsdb.Race{ID: id, Name: name, StartDate: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) addUser(id sharedtypes.UserID, name string, public bool) {
	f.users[id] = resultsdb.User{ID: id, DisplayName: name, Public: public}
}

func (f *fakeStore) addTeam(id sharedtypes.TeamID, name string) {
	f.teams[id] = resultsdb.Team{ID: id, Name: name}
}

func (f *fakeStore) addMembership(userID sharedtypes.UserID, teamID sharedtypes.TeamID, raceID sharedtypes.RaceID) {
	f.participations = append(f.participations, resultsdb.Participation{
		UserID: userID, TeamID: teamID, RaceID: raceID,
	})
}

func individualKey(userID sharedtypes.UserID, raceID sharedtypes.RaceID) string {
	return fmt.Sprintf("%d:%d", userID, raceID)
}

func teamKey(teamID sharedtypes.TeamID, raceID sharedtypes.RaceID) string {
	return fmt.Sprintf("%d:%d", teamID, raceID)
}

func (f *fakeStore) individualStanding(r *resultsdb.IndividualResult) resultsdb.IndividualStanding {
	user := f.users[r.UserID]
	race := f.races[r.RaceID]
	return resultsdb.IndividualStanding{
		ResultID:    r.ID,
		UserID:      r.UserID,
		RaceID:      r.RaceID,
		RawTime:     r.RawTime,
		Penalty:     r.Penalty,
		Total:       r.Total,
		DisplayName: user.DisplayName,
		RaceName:    race.Name,
		RaceDate:    race.StartDate,
		Public:      user.Public,
	}
}

func (f *fakeStore) teamStanding(r *resultsdb.TeamResult) resultsdb.TeamStanding {
	team := f.teams[r.TeamID]
	race := f.races[r.RaceID]
	return resultsdb.TeamStanding{
		ResultID:    r.ID,
		TeamID:      r.TeamID,
		RaceID:      r.RaceID,
		AvgRawTime:  r.AvgRawTime,
		AvgPenalty:  r.AvgPenalty,
		AvgTotal:    r.AvgTotal,
		MemberCount: r.MemberCount,
		Status:      r.Status,
		Category:    r.Category,
		Equipment:   r.Equipment,
		Source:      r.Source,
		TeamName:    team.Name,
		RaceName:    race.Name,
		RaceDate:    race.StartDate,
	}
}

// fakeIndividualRepo implements resultsdb.IndividualResultRepository.
type fakeIndividualRepo struct{ *fakeStore }

func (f fakeIndividualRepo) Upsert(_ context.Context, _ bun.IDB, result *resultsdb.IndividualResult) error {
	result.Recompute()
	key := individualKey(result.UserID, result.RaceID)
	if existing, ok := f.individual[key]; ok {
		result.ID = existing.ID
	} else {
		f.fakeStore.nextID++
		result.ID = f.fakeStore.nextID
	}
	stored := *result
	f.individual[key] = &stored
	return nil
}

func (f fakeIndividualRepo) GetByID(_ context.Context, _ bun.IDB, id sharedtypes.ResultID) (*resultsdb.IndividualResult, error) {
	for _, r := range f.individual {
		if r.ID == id {
			found := *r
			return &found, nil
		}
	}
	return nil, nil
}

func (f fakeIndividualRepo) Delete(_ context.Context, _ bun.IDB, id sharedtypes.ResultID) (bool, error) {
	for key, r := range f.individual {
		if r.ID == id {
			delete(f.individual, key)
			return true, nil
		}
	}
	return false, nil
}

func (f fakeIndividualRepo) ListStandings(_ context.Context, _ bun.IDB, raceID *sharedtypes.RaceID, onlyPublic bool) ([]resultsdb.IndividualStanding, error) {
	var rows []resultsdb.IndividualStanding
	for _, r := range f.individual {
		if raceID != nil && r.RaceID != *raceID {
			continue
		}
		if onlyPublic && !f.users[r.UserID].Public {
			continue
		}
		rows = append(rows, f.individualStanding(r))
	}
	return rows, nil
}

func (f fakeIndividualRepo) ListForUser(_ context.Context, _ bun.IDB, userID sharedtypes.UserID) ([]resultsdb.IndividualStanding, error) {
	var rows []resultsdb.IndividualStanding
	for _, r := range f.individual {
		if r.UserID == userID {
			rows = append(rows, f.individualStanding(r))
		}
	}
	return rows, nil
}

func (f fakeIndividualRepo) ListForRaces(_ context.Context, _ bun.IDB, raceIDs []sharedtypes.RaceID) ([]resultsdb.IndividualResult, error) {
	wanted := make(map[sharedtypes.RaceID]bool, len(raceIDs))
	for _, id := range raceIDs {
		wanted[id] = true
	}
	var rows []resultsdb.IndividualResult
	for _, r := range f.individual {
		if wanted[r.RaceID] {
			rows = append(rows, *r)
		}
	}
	return rows, nil
}

// fakeTeamRepo implements resultsdb.TeamResultRepository.
type fakeTeamRepo struct{ *fakeStore }

func (f fakeTeamRepo) UpsertImported(_ context.Context, _ bun.IDB, result *resultsdb.TeamResult) error {
	result.Source = sharedtypes.SourceImport
	result.AvgTotal = result.AvgRawTime + result.AvgPenalty
	key := teamKey(result.TeamID, result.RaceID)
	if existing, ok := f.teamResults[key]; ok {
		result.ID = existing.ID
	} else {
		f.fakeStore.nextID++
		result.ID = f.fakeStore.nextID
	}
	stored := *result
	f.teamResults[key] = &stored
	return nil
}

func (f fakeTeamRepo) UpsertAggregate(_ context.Context, _ bun.IDB, result *resultsdb.TeamResult) error {
	result.Source = sharedtypes.SourceAggregate
	key := teamKey(result.TeamID, result.RaceID)
	if existing, ok := f.teamResults[key]; ok {
		// Mirrors the SQL conflict update: classification fields survive.
		result.ID = existing.ID
		result.Status = existing.Status
		result.Category = existing.Category
		result.Equipment = existing.Equipment
	} else {
		f.fakeStore.nextID++
		result.ID = f.fakeStore.nextID
	}
	stored := *result
	f.teamResults[key] = &stored
	return nil
}

func (f fakeTeamRepo) ListStandings(_ context.Context, _ bun.IDB, raceID *sharedtypes.RaceID) ([]resultsdb.TeamStanding, error) {
	var rows []resultsdb.TeamStanding
	for _, r := range f.teamResults {
		if raceID != nil && r.RaceID != *raceID {
			continue
		}
		rows = append(rows, f.teamStanding(r))
	}
	return rows, nil
}

func (f fakeTeamRepo) ListForTeams(_ context.Context, _ bun.IDB, teamIDs []sharedtypes.TeamID) ([]resultsdb.TeamStanding, error) {
	wanted := make(map[sharedtypes.TeamID]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}
	var rows []resultsdb.TeamStanding
	for _, r := range f.teamResults {
		if wanted[r.TeamID] {
			rows = append(rows, f.teamStanding(r))
		}
	}
	return rows, nil
}

func (f fakeTeamRepo) ListForRaces(_ context.Context, _ bun.IDB, raceIDs []sharedtypes.RaceID) ([]resultsdb.TeamResult, error) {
	wanted := make(map[sharedtypes.RaceID]bool, len(raceIDs))
	for _, id := range raceIDs {
		wanted[id] = true
	}
	var rows []resultsdb.TeamResult
	for _, r := range f.teamResults {
		if wanted[r.RaceID] {
			rows = append(rows, *r)
		}
	}
	return rows, nil
}

// fakeReferenceRepo implements resultsdb.ReferenceRepository.
type fakeReferenceRepo struct{ *fakeStore }

func (f fakeReferenceRepo) RaceExists(_ context.Context, _ bun.IDB, id sharedtypes.RaceID) (bool, error) {
	_, ok := f.races[id]
	return ok, nil
}

func (f fakeReferenceRepo) UserExists(_ context.Context, _ bun.IDB, id sharedtypes.UserID) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f fakeReferenceRepo) TeamExists(_ context.Context, _ bun.IDB, id sharedtypes.TeamID) (bool, error) {
	_, ok := f.teams[id]
	return ok, nil
}

func (f fakeReferenceRepo) MemberResults(_ context.Context, _ bun.IDB, raceID sharedtypes.RaceID) ([]resultsdb.MemberResult, error) {
	var rows []resultsdb.MemberResult
	for _, p := range f.participations {
		if p.RaceID != raceID {
			continue
		}
		if r, ok := f.individual[individualKey(p.UserID, raceID)]; ok {
			rows = append(rows, resultsdb.MemberResult{
				TeamID:  p.TeamID,
				UserID:  r.UserID,
				RawTime: r.RawTime,
				Penalty: r.Penalty,
				Total:   r.Total,
			})
		}
	}
	return rows, nil
}

func (f fakeReferenceRepo) TeamIDsForUser(_ context.Context, _ bun.IDB, userID sharedtypes.UserID) ([]sharedtypes.TeamID, error) {
	seen := make(map[sharedtypes.TeamID]bool)
	var ids []sharedtypes.TeamID
	for _, p := range f.participations {
		if p.UserID == userID && !seen[p.TeamID] {
			seen[p.TeamID] = true
			ids = append(ids, p.TeamID)
		}
	}
	return ids, nil
}
