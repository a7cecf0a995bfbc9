package resultsservice

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	resultsdomain "github.com/Infuseting/SAE301-sub003/app/modules/results/domain"
	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// Import files are semicolon-separated with a mandatory header row.
const importDelimiter = ';'

const (
	columnParticipantID = "participant_id"
	columnTeamID        = "team_id"
	columnTime          = "time"
	columnPenalty       = "penalty"
	columnStatus        = "status"
	columnCategory      = "category"
	columnEquipment     = "equipment"
	columnMembers       = "members"
)

// ImportIndividualResults bulk-loads individual results for a race from a
// delimited text file. Row-level failures are recorded in the report and do
// not abort the import; file-level failures abort with nothing written.
// Team averages for the race are recomputed inside the same transaction.
func (s *ResultService) ImportIndividualResults(ctx context.Context, raceID sharedtypes.RaceID, file io.Reader) (*resultsdto.ImportReport, error) {
	defer s.observe("ImportIndividualResults", time.Now())

	reader, cols, report, err := s.beginImport(ctx, raceID, file, columnParticipantID)
	if err != nil {
		s.metrics.RecordImport(string(KindIndividual), "rejected")
		return nil, err
	}

	err = s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		if err := s.importIndividualRows(ctx, idb, raceID, reader, cols, report); err != nil {
			return err
		}
		return s.recalculateTeamResults(ctx, idb, raceID)
	})
	if err != nil {
		s.metrics.RecordImport(string(KindIndividual), "failed")
		return nil, err
	}

	s.finishImport(ctx, KindIndividual, raceID, report)
	return report, nil
}

// ImportTeamResults bulk-loads team results for a race. The provided
// averages are trusted as authoritative and per-member aggregation is
// skipped; the next recalculation overwrites them.
func (s *ResultService) ImportTeamResults(ctx context.Context, raceID sharedtypes.RaceID, file io.Reader) (*resultsdto.ImportReport, error) {
	defer s.observe("ImportTeamResults", time.Now())

	reader, cols, report, err := s.beginImport(ctx, raceID, file, columnTeamID)
	if err != nil {
		s.metrics.RecordImport(string(KindTeam), "rejected")
		return nil, err
	}

	err = s.runInTx(ctx, func(ctx context.Context, idb bun.IDB) error {
		return s.importTeamRows(ctx, idb, raceID, reader, cols, report)
	})
	if err != nil {
		s.metrics.RecordImport(string(KindTeam), "failed")
		return nil, err
	}

	s.finishImport(ctx, KindTeam, raceID, report)
	return report, nil
}

// beginImport resolves the race, reads and validates the header, and
// prepares the report. Nothing is written yet.
func (s *ResultService) beginImport(ctx context.Context, raceID sharedtypes.RaceID, file io.Reader, idColumn string) (*csv.Reader, map[string]int, *resultsdto.ImportReport, error) {
	exists, err := s.refs.RaceExists(ctx, nil, raceID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to resolve race %d: %w", raceID, err)
	}
	if !exists {
		return nil, nil, nil, fmt.Errorf("race %d: %w", raceID, ErrRaceNotFound)
	}

	reader := csv.NewReader(file)
	reader.Comma = importDelimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrEmptyImport, err)
	}

	cols := normalizeHeader(header)
	for _, required := range []string{idColumn, columnTime} {
		if _, ok := cols[required]; !ok {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	report := &resultsdto.ImportReport{ImportID: uuid.NewString()}
	return reader, cols, report, nil
}

func (s *ResultService) importIndividualRows(ctx context.Context, idb bun.IDB, raceID sharedtypes.RaceID, reader *csv.Reader, cols map[string]int, report *resultsdto.ImportReport) error {
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		report.Total++

		row := mapRow(cols, record)

		userID, err := parsePositiveID(row[columnParticipantID])
		if err != nil {
			report.AddError(line, "invalid participant id %q", row[columnParticipantID])
			continue
		}
		known, err := s.refs.UserExists(ctx, idb, sharedtypes.UserID(userID))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !known {
			report.AddError(line, "unknown participant %d", userID)
			continue
		}

		result := &resultsdb.IndividualResult{
			UserID:  sharedtypes.UserID(userID),
			RaceID:  raceID,
			RawTime: resultsdomain.ParseTimeOrZero(row[columnTime]),
			Penalty: resultsdomain.ParseTimeOrZero(row[columnPenalty]),
		}
		if err := s.results.Upsert(ctx, idb, result); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		report.Success++
	}
}

func (s *ResultService) importTeamRows(ctx context.Context, idb bun.IDB, raceID sharedtypes.RaceID, reader *csv.Reader, cols map[string]int, report *resultsdto.ImportReport) error {
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		report.Total++

		row := mapRow(cols, record)

		teamID, err := parsePositiveID(row[columnTeamID])
		if err != nil {
			report.AddError(line, "invalid team id %q", row[columnTeamID])
			continue
		}
		known, err := s.refs.TeamExists(ctx, idb, sharedtypes.TeamID(teamID))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !known {
			report.AddError(line, "unknown team %d", teamID)
			continue
		}

		members := 0
		if v := row[columnMembers]; v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				members = n
			}
		}

		result := &resultsdb.TeamResult{
			TeamID:      sharedtypes.TeamID(teamID),
			RaceID:      raceID,
			AvgRawTime:  resultsdomain.ParseTimeOrZero(row[columnTime]),
			AvgPenalty:  resultsdomain.ParseTimeOrZero(row[columnPenalty]),
			MemberCount: members,
			Status:      sharedtypes.TeamStatus(row[columnStatus]),
			Category:    row[columnCategory],
			Equipment:   row[columnEquipment],
		}
		if err := s.teams.UpsertImported(ctx, idb, result); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		report.Success++
	}
}

func (s *ResultService) finishImport(ctx context.Context, kind Kind, raceID sharedtypes.RaceID, report *resultsdto.ImportReport) {
	s.metrics.RecordImport(string(kind), "ok")
	s.metrics.RecordImportRows(string(kind), report.Success, len(report.Errors))
	s.logger.InfoContext(ctx, "result import committed",
		slog.String("import_id", report.ImportID),
		slog.String("kind", string(kind)),
		slog.Int64("race_id", int64(raceID)),
		slog.Int("total", report.Total),
		slog.Int("success", report.Success),
		slog.Int("failed", len(report.Errors)),
	)
}

// normalizeHeader maps trimmed, lowercased column names to their index.
func normalizeHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

// mapRow pairs normalized header names with trimmed cell values. Cells
// beyond the record's length read as empty.
func mapRow(cols map[string]int, record []string) map[string]string {
	row := make(map[string]string, len(cols))
	for name, idx := range cols {
		if idx < len(record) {
			row[name] = strings.TrimSpace(record[idx])
		} else {
			row[name] = ""
		}
	}
	return row
}

// parsePositiveID parses a strictly positive integer identifier.
func parsePositiveID(token string) (int64, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("non-positive identifier %d", id)
	}
	return id, nil
}
