// Package replan implements the rolling-horizon controller: it re-invokes
// the single-horizon DP optimizer at successive decision points during the
// voyage, each time against the freshest forecast issue and the remaining
// distance and time budget, and stitches the committed partial schedules
// into one voyage-long plan plus a log of how the plan evolved.
package replan

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"seaplan/internal/optimizer"
	"seaplan/internal/physics"
	"seaplan/internal/route"
	"seaplan/internal/types"
	"seaplan/internal/weather"
)

// Config wires a Controller. Speeds is the admissible engine-speed set shared
// by every DP invocation.
type Config struct {
	Grid          *weather.Grid
	Route         *route.Route
	Model         physics.ShipModel
	Speeds        []float64
	BudgetHours   float64
	SlotHours     float64
	IntervalHours float64
	Logger        *slog.Logger
}

// Controller drives the Planning -> Executing -> (Planning | Done) cycle.
type Controller struct {
	grid     *weather.Grid
	route    *route.Route
	model    physics.ShipModel
	speeds   []float64
	budget   float64
	dt       float64
	interval float64
	logger   *slog.Logger
}

// New creates a Controller.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		grid:     cfg.Grid,
		route:    cfg.Route,
		model:    cfg.Model,
		speeds:   cfg.Speeds,
		budget:   cfg.BudgetHours,
		dt:       cfg.SlotHours,
		interval: cfg.IntervalHours,
		logger:   logger,
	}
}

// Run executes the full rolling-horizon cycle. On a failed re-plan it
// returns the PlanResult holding the committed prefix (marked Failed)
// together with a ReplanFailed error; committed legs are never discarded.
func (c *Controller) Run(ctx context.Context) (*types.PlanResult, error) {
	result := &types.PlanResult{RunID: uuid.NewString()}

	var committed []types.LegDecision
	elapsed := 0.0
	legCursor := 0
	legs := c.route.Legs

	for legCursor < len(legs) {
		if err := ctx.Err(); err != nil {
			result.Failed = true
			result.Schedule = types.NewLegSchedule(committed)
			return result, types.NewAppError(types.ErrCodeReplanFailed, "run cancelled", err)
		}

		// Decision points sit on the replan cadence: the first boundary at or
		// after the elapsed committed time.
		decisionHour := c.interval * math.Ceil(elapsed/c.interval)

		issue, ok := c.grid.IssueAtOrBefore(int(decisionHour))
		if !ok {
			// No forecast issued yet at this hour; persist forward from the
			// oldest available issue.
			issues := c.grid.Issues()
			if len(issues) == 0 {
				result.Failed = true
				result.Schedule = types.NewLegSchedule(committed)
				return result, types.NewAppError(types.ErrCodeReplanFailed, "weather grid has no forecast issues", nil)
			}
			issue = issues[0]
		}

		remainingBudget := c.budget - elapsed
		in := optimizer.Inputs{
			Legs:        legs[legCursor:],
			NodeBase:    legCursor,
			Weather:     weather.NewFallback(c.grid.PredictedView(issue)),
			Model:       c.model,
			Speeds:      c.speeds,
			BudgetHours: remainingBudget,
			SlotHours:   c.dt,
			StartHour:   elapsed,
		}

		partial, err := optimizer.Plan(in)
		if err != nil {
			result.Failed = true
			result.Schedule = types.NewLegSchedule(committed)
			return result, types.NewAppError(types.ErrCodeReplanFailed,
				fmt.Sprintf("re-plan at hour %.1f failed", decisionHour), err)
		}

		result.DecisionPoints = append(result.DecisionPoints, types.DecisionPoint{
			Hour:                 decisionHour,
			IssueHour:            issue,
			RemainingNm:          c.route.RemainingNm(legCursor),
			RemainingBudgetHours: remainingBudget,
			Partial:              partial,
		})

		c.logger.Info("decision point",
			"hour", decisionHour,
			"issue_hour", issue,
			"remaining_nm", c.route.RemainingNm(legCursor),
			"remaining_budget_hours", remainingBudget)

		// Executing: commit legs until the next decision boundary or the end
		// of the voyage, whichever comes first.
		horizon := decisionHour + c.interval
		for _, d := range partial.ByLeg {
			committed = append(committed, d)
			elapsed += d.PlannedHours
			legCursor++
			if elapsed >= horizon && legCursor < len(legs) {
				break
			}
		}
	}

	result.Schedule = types.NewLegSchedule(committed)
	c.logger.Info("plan complete",
		"run_id", result.RunID,
		"legs", len(committed),
		"planned_hours", result.Schedule.PlannedHours(),
		"planned_fuel_t", result.Schedule.PlannedFuelT(),
		"decision_points", len(result.DecisionPoints))
	return result, nil
}
