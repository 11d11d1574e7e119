// Package sim implements the execution simulator: it replays a finished
// speed schedule (from the DP optimizer, the rolling-horizon controller, or
// any external segment-granularity optimizer) against a chosen weather
// source and quantifies plan-vs-reality divergence. Nothing in a replay is
// fatal: engine-limit clamps, weather gaps, and stalled legs are recorded
// outcomes, never errors.
package sim

import (
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"seaplan/internal/physics"
	"seaplan/internal/route"
	"seaplan/internal/types"
	"seaplan/internal/weather"
)

// speedEqualTol treats ground speeds closer than this (knots) as equal when
// counting speed changes and detecting clamps.
const speedEqualTol = 1e-6

// Config wires a Simulator.
type Config struct {
	Route       *route.Route
	Weather     weather.Source
	Model       physics.ShipModel
	Bounds      physics.SpeedBounds
	BudgetHours float64
	Logger      *slog.Logger
}

// Simulator replays schedules against one weather source.
type Simulator struct {
	route   *route.Route
	weather weather.Source
	model   physics.ShipModel
	bounds  physics.SpeedBounds
	budget  float64
	logger  *slog.Logger
}

// New creates a Simulator.
func New(cfg Config) *Simulator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		route:   cfg.Route,
		weather: cfg.Weather,
		model:   cfg.Model,
		bounds:  cfg.Bounds,
		budget:  cfg.BudgetHours,
		logger:  logger,
	}
}

// Run replays the schedule. The schedule's granularity is selected by its
// tag: per-segment schedules are expanded to the per-leg targets they imply.
// The only errors are shape violations; everything observed during the
// replay lands in the result.
func (s *Simulator) Run(sched types.Schedule) (*types.SimulationResult, error) {
	if err := sched.Validate(len(s.route.Legs)); err != nil {
		return nil, err
	}

	var targets []legTarget
	switch sched.Kind {
	case types.ScheduleByLeg:
		targets = targetsFromLegs(sched.ByLeg)
	case types.ScheduleBySegment:
		targets = targetsFromSegments(sched.BySegment, len(s.route.Legs))
	default:
		return nil, types.NewAppError(types.ErrCodeInvalidSchedule, "unknown schedule kind", nil)
	}

	fb := weather.NewFallback(s.weather)
	result := &types.SimulationResult{RunID: uuid.NewString()}

	elapsed := 0.0
	fuel := 0.0
	prevTarget := math.NaN()

	for i, tgt := range targets {
		leg := s.route.Legs[i]
		outcome := types.LegOutcome{
			Leg:             i,
			DistanceNm:      leg.DistanceNm,
			PlannedSpeedKn:  tgt.groundKn,
			PlannedEngineKn: tgt.engineKn,
		}

		gapsBefore := fb.Gaps()
		hour := int(elapsed)
		if hour < 0 {
			hour = 0
		}
		sample, err := fb.Sample(i, hour)
		if err != nil {
			// Only boundary violations reach here; treat as a gap and go on.
			sample = types.MissingSample()
			result.WeatherGaps++
		}
		if fb.Gaps() > gapsBefore {
			outcome.WeatherGap = true
			result.WeatherGaps += fb.Gaps() - gapsBefore
		}

		engineKn, achievedKn, clamped := s.resolveEngineSpeed(tgt.groundKn, sample, leg.BearingDeg)
		outcome.ActualEngineKn = engineKn
		outcome.ActualSpeedKn = achievedKn
		if clamped {
			outcome.Clamped = true
			result.ClampViolations++
		}

		if achievedKn <= 0 {
			// Weather losses at the clamp bound plus an opposing current can
			// leave the ship making no way. Record the stall and stop the
			// replay; hours and fuel past this point are undefined.
			outcome.ActualSpeedKn = 0
			outcome.Stalled = true
			outcome.ElapsedHours = elapsed
			outcome.CumulativeFuelT = fuel
			result.StalledLegs++
			result.Legs = append(result.Legs, outcome)
			s.logger.Warn("ship makes no way, stopping replay",
				"run_id", result.RunID, "leg", i, "engine_kn", engineKn)
			break
		}

		// Time advances on the planned speed unless the clamp changed what
		// the ship can actually do.
		timeSpeed := tgt.groundKn
		if clamped {
			timeSpeed = achievedKn
		}
		legHours := leg.DistanceNm / timeSpeed
		legFuel := s.model.FuelRate(engineKn) * (leg.DistanceNm / achievedKn)

		elapsed += legHours
		fuel += legFuel
		outcome.Hours = legHours
		outcome.FuelT = legFuel
		outcome.ElapsedHours = elapsed
		outcome.CumulativeFuelT = fuel

		if !math.IsNaN(prevTarget) && math.Abs(tgt.groundKn-prevTarget) > speedEqualTol {
			result.SpeedChanges++
		}
		prevTarget = tgt.groundKn

		result.Legs = append(result.Legs, outcome)
	}

	result.TotalHours = elapsed
	result.TotalFuelT = fuel
	result.ArrivalDeviationHours = elapsed - s.budget

	s.logger.Info("simulation complete",
		"run_id", result.RunID,
		"total_hours", result.TotalHours,
		"total_fuel_t", result.TotalFuelT,
		"arrival_deviation_hours", result.ArrivalDeviationHours,
		"clamp_violations", result.ClampViolations,
		"weather_gaps", result.WeatherGaps)
	return result, nil
}

// resolveEngineSpeed inverts the ground-speed target under the sampled
// weather and applies the engine-speed limits. It returns the engine speed
// actually run, the ground speed actually achieved, and whether a limit
// clamped the plan.
func (s *Simulator) resolveEngineSpeed(targetKn float64, sample types.WeatherSample, bearingDeg float64) (engineKn, achievedKn float64, clamped bool) {
	engineKn, err := s.model.EngineSpeedFor(targetKn, sample, bearingDeg, s.bounds)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Code == types.ErrCodeInfeasible {
			// Target exceeds the engine limit: run flat out and record the
			// achievable speed at the clamp bound.
			engineKn = s.bounds.MaxKn
			return engineKn, s.model.GroundSpeed(engineKn, sample, bearingDeg), true
		}
		// Unexpected physics failure: hold the minimum setting.
		engineKn = s.bounds.MinKn
		return engineKn, s.model.GroundSpeed(engineKn, sample, bearingDeg), true
	}

	achievedKn = s.model.GroundSpeed(engineKn, sample, bearingDeg)
	if engineKn <= s.bounds.MinKn+speedEqualTol && achievedKn > targetKn+inverseSlack {
		// The target sits below what the ship does at its minimum setting;
		// the achieved surplus is a clamp in the other direction.
		return engineKn, achievedKn, true
	}
	// Within bounds the bisection matched the target; use the planned value
	// as the operative ground speed.
	return engineKn, targetKn, false
}

// inverseSlack absorbs bisection tolerance when deciding whether the minimum
// engine setting overshoots the target.
const inverseSlack = 0.01
