package resultsservice

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// chartTopN keeps standings charts readable for big fields.
const chartTopN = 20

// GenerateStandingsChart renders a race's top standings as a PNG bar chart
// of total times in minutes.
func (s *ResultService) GenerateStandingsChart(ctx context.Context, raceID sharedtypes.RaceID, kind Kind) ([]byte, error) {
	defer s.observe("GenerateStandingsChart", time.Now())

	var rows []resultsdto.LeaderboardRow
	switch kind {
	case KindIndividual:
		if err := s.requireRace(ctx, raceID); err != nil {
			return nil, err
		}
		standings, err := s.results.ListStandings(ctx, nil, &raceID, false)
		if err != nil {
			return nil, err
		}
		rows = buildIndividualRows(standings, "")
	case KindTeam:
		if err := s.requireRace(ctx, raceID); err != nil {
			return nil, err
		}
		standings, err := s.teams.ListStandings(ctx, nil, &raceID)
		if err != nil {
			return nil, err
		}
		rows = buildTeamRows(standings, "")
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("race %d: %w", raceID, ErrNoResults)
	}
	if len(rows) > chartTopN {
		rows = rows[:chartTopN]
	}

	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d. %s", row.Rank, row.DisplayName),
			Value: row.Total / 60,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Race %d standings", raceID),
		Width:    1024,
		Height:   512,
		BarWidth: 36,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name: "total (min)",
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render standings chart: %w", err)
	}
	return buf.Bytes(), nil
}
