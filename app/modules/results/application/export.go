package resultsservice

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// ExportCSV serializes a race's standings as semicolon-separated text, rows
// ascending by total with sequential ranks, so the file round-trips with
// the leaderboard view.
func (s *ResultService) ExportCSV(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]byte, error) {
	defer s.observe("ExportCSV", time.Now())

	header, records, err := s.exportRecords(ctx, raceID, kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = importDelimiter

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX serializes the same standings as a spreadsheet.
func (s *ResultService) ExportXLSX(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]byte, error) {
	defer s.observe("ExportXLSX", time.Now())

	header, records, err := s.exportRecords(ctx, raceID, kind)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	writeRow := func(rowIdx int, cells []string) error {
		axis, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return f.SetSheetRow(sheet, axis, &values)
	}

	if err := writeRow(1, header); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet header: %w", err)
	}
	for i, record := range records {
		if err := writeRow(i+2, record); err != nil {
			return nil, fmt.Errorf("failed to write spreadsheet row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// exportRecords builds the full, unpaginated standings of a race as
// formatted text records.
func (s *ResultService) exportRecords(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]string, [][]string, error) {
	if err := s.requireRace(ctx, raceID); err != nil {
		return nil, nil, err
	}

	var rows []resultsdto.LeaderboardRow
	switch kind {
	case KindIndividual:
		standings, err := s.results.ListStandings(ctx, nil, &raceID, false)
		if err != nil {
			return nil, nil, err
		}
		rows = buildIndividualRows(standings, "")
	case KindTeam:
		standings, err := s.teams.ListStandings(ctx, nil, &raceID)
		if err != nil {
			return nil, nil, err
		}
		rows = buildTeamRows(standings, "")
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	if kind == KindTeam {
		header := []string{"rank", "name", "time", "penalty", "total", "members"}
		records := make([][]string, 0, len(rows))
		for _, row := range rows {
			records = append(records, []string{
				strconv.Itoa(row.Rank),
				row.DisplayName,
				row.RawTimeDisplay,
				row.PenaltyDisplay,
				row.TotalDisplay,
				strconv.Itoa(row.MemberCount),
			})
		}
		return header, records, nil
	}

	header := []string{"rank", "name", "time", "penalty", "total"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.Rank),
			row.DisplayName,
			row.RawTimeDisplay,
			row.PenaltyDisplay,
			row.TotalDisplay,
		})
	}
	return header, records, nil
}
