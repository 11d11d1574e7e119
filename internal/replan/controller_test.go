package replan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaplan/internal/optimizer"
	"seaplan/internal/physics"
	"seaplan/internal/route"
	"seaplan/internal/types"
	"seaplan/internal/weather"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func calmForecast(node, issue, target int) weather.Record {
	return weather.Record{
		NodeID:        node,
		SampleHour:    target,
		ForecastHour:  ip(issue),
		WindKmh:       fp(0),
		WindDirDeg:    fp(0),
		WaveHeightM:   fp(0),
		CurrentKmh:    fp(0),
		CurrentDirDeg: fp(0),
	}
}

func stormForecast(node, issue, target int) weather.Record {
	rec := calmForecast(node, issue, target)
	// Beaufort 12 head weather for eastward legs, with heavy seas.
	rec.WindKmh = fp(120)
	rec.WindDirDeg = fp(90)
	rec.WaveHeightM = fp(5)
	return rec
}

// fourLegRoute is 400 nm of eastward equator legs, 100 nm each.
func fourLegRoute(t *testing.T) *route.Route {
	t.Helper()
	nodes := make([]types.SpatialNode, 5)
	for i := range nodes {
		nodes[i] = types.SpatialNode{
			Index:        i,
			Lat:          0,
			Lon:          float64(i) * 1.667,
			CumulativeNm: float64(i) * 100,
		}
	}
	r, err := route.Build(nodes)
	require.NoError(t, err)
	return r
}

func newController(t *testing.T, records []weather.Record, budgetHours float64) *Controller {
	t.Helper()
	grid, err := weather.NewGrid(5, records, nil)
	require.NoError(t, err)
	return New(Config{
		Grid:          grid,
		Route:         fourLegRoute(t),
		Model:         physics.DefaultShipModel(),
		Speeds:        optimizer.DiscretizeSpeeds(physics.SpeedBounds{MinKn: 10, MaxKn: 14}, 9),
		BudgetHours:   budgetHours,
		SlotHours:     0.1,
		IntervalHours: 24,
	})
}

func calmRecords() []weather.Record {
	var records []weather.Record
	for node := 0; node < 5; node++ {
		records = append(records, calmForecast(node, 0, 0))
		records = append(records, calmForecast(node, 24, 24))
	}
	return records
}

func TestRunCalmVoyage(t *testing.T) {
	c := newController(t, calmRecords(), 36)

	result, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Failed)
	assert.NotEmpty(t, result.RunID)

	// The stitched schedule covers every leg exactly once, in order.
	require.NoError(t, result.Schedule.Validate(4))
	require.Len(t, result.Schedule.ByLeg, 4)
	for i, d := range result.Schedule.ByLeg {
		assert.Equal(t, i, d.Leg)
		assert.Greater(t, d.GroundSpeedKn, 0.0)
	}

	// The budget holds over the whole stitched plan.
	assert.LessOrEqual(t, result.Schedule.PlannedHours(), 36.0+1e-9)

	// 400 nm in 36 hours needs roughly 9 h legs: the first plan commits up
	// to the 24 h boundary and a second decision finishes the voyage.
	require.Len(t, result.DecisionPoints, 2)

	first := result.DecisionPoints[0]
	assert.Equal(t, 0.0, first.Hour)
	assert.Equal(t, 0, first.IssueHour)
	assert.Equal(t, 400.0, first.RemainingNm)
	assert.Equal(t, 36.0, first.RemainingBudgetHours)
	require.NoError(t, first.Partial.Validate(4), "first partial plans the full route")

	second := result.DecisionPoints[1]
	assert.Greater(t, second.Hour, first.Hour)
	assert.Equal(t, 24, second.IssueHour, "second decision uses the fresher issue")
	assert.Less(t, second.RemainingNm, 400.0)
	assert.Less(t, second.RemainingBudgetHours, 36.0)
}

func TestRunCommittedPrefixSurvivesLaterDecisions(t *testing.T) {
	c := newController(t, calmRecords(), 36)

	result, err := c.Run(context.Background())
	require.NoError(t, err)

	// Every committed leg matches the partial plan of the decision point
	// that produced it.
	first := result.DecisionPoints[0].Partial
	for i := 0; i < len(first.ByLeg) && i < 3; i++ {
		assert.Equal(t, first.ByLeg[i], result.Schedule.ByLeg[i],
			"committed leg %d must come from the first plan unchanged", i)
	}
}

func TestRunStormReplanFails(t *testing.T) {
	// The issue-0 forecast is calm everywhere; the issue-24 forecast puts
	// Beaufort 12 head weather on the remaining leg. The re-plan cannot make
	// the remaining budget and the committed prefix is preserved.
	records := calmRecords()
	for i, rec := range records {
		if rec.NodeID == 3 && *rec.ForecastHour == 24 {
			records[i] = stormForecast(3, 24, 24)
		}
	}
	c := newController(t, records, 36)

	result, err := c.Run(context.Background())
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeReplanFailed, appErr.Code)

	var inner *types.AppError
	require.True(t, errors.As(appErr.Err, &inner))
	assert.Equal(t, types.ErrCodeInfeasible, inner.Code)

	require.NotNil(t, result)
	assert.True(t, result.Failed)
	require.Len(t, result.DecisionPoints, 1, "only the first decision succeeded")

	// The committed prefix survives the failure.
	require.Len(t, result.Schedule.ByLeg, 3)
	for i, d := range result.Schedule.ByLeg {
		assert.Equal(t, i, d.Leg)
	}
}

func TestRunSingleDecisionVoyage(t *testing.T) {
	// With a huge interval the whole voyage commits off the first plan.
	grid, err := weather.NewGrid(5, calmRecords(), nil)
	require.NoError(t, err)
	c := New(Config{
		Grid:          grid,
		Route:         fourLegRoute(t),
		Model:         physics.DefaultShipModel(),
		Speeds:        optimizer.DiscretizeSpeeds(physics.SpeedBounds{MinKn: 10, MaxKn: 14}, 9),
		BudgetHours:   36,
		SlotHours:     0.1,
		IntervalHours: 100,
	})

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.DecisionPoints, 1)
	require.NoError(t, result.Schedule.Validate(4))
}

func TestRunCancelledContext(t *testing.T) {
	c := newController(t, calmRecords(), 36)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.Run(ctx)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeReplanFailed, appErr.Code)
	assert.True(t, result.Failed)
	assert.Empty(t, result.Schedule.ByLeg)
}

func TestRunNoForecastIssues(t *testing.T) {
	c := newController(t, nil, 36)

	result, err := c.Run(context.Background())
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeReplanFailed, appErr.Code)
	assert.True(t, result.Failed)
}

func TestRunInfeasibleFromTheStart(t *testing.T) {
	// 400 nm in 20 hours needs 20 kn; the engine tops out at 14.
	c := newController(t, calmRecords(), 20)

	result, err := c.Run(context.Background())
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeReplanFailed, appErr.Code)
	assert.True(t, result.Failed)
	assert.Empty(t, result.Schedule.ByLeg, "nothing was committed")
	assert.Empty(t, result.DecisionPoints)
}
