// Package optimizer implements the single-horizon dynamic-programming speed
// optimizer: a forward labeling search over the DAG of (node, time_slot)
// states that finds the minimum-fuel schedule of per-leg ground-speed
// targets satisfying an arrival-time budget.
//
// Time is discretized into slots of SlotHours; elapsed time always rounds up
// to the next slot boundary. The ceiling is a hard invariant: rounding down
// or to nearest can let an infeasible plan appear to satisfy the arrival
// budget.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"seaplan/internal/physics"
	"seaplan/internal/types"
	"seaplan/internal/weather"
)

// Inputs configures one DP invocation. Legs may be a tail of the full route
// when re-planning mid-voyage: leg i spans weather nodes NodeBase+i and
// NodeBase+i+1, and the emitted decisions carry absolute leg indices.
// StartHour is the voyage-elapsed time at which the plan begins; it offsets
// the weather lookups.
type Inputs struct {
	Legs        []types.Leg
	NodeBase    int
	Weather     weather.Source
	Model       physics.ShipModel
	Speeds      []float64 // admissible engine speeds, knots, ascending
	BudgetHours float64
	SlotHours   float64
	StartHour   float64
}

func (in Inputs) validate() error {
	if len(in.Legs) == 0 {
		return types.NewAppError(types.ErrCodeInvalidRoute, "no legs to plan", nil)
	}
	if len(in.Speeds) == 0 {
		return types.NewAppError(types.ErrCodeConfigInvalid, "empty engine speed set", nil)
	}
	for i := 1; i < len(in.Speeds); i++ {
		if in.Speeds[i] <= in.Speeds[i-1] {
			return types.NewAppError(types.ErrCodeConfigInvalid, "engine speeds must be strictly ascending", nil)
		}
	}
	if in.SlotHours <= 0 {
		return types.NewAppError(types.ErrCodeConfigInvalid,
			fmt.Sprintf("time slot step %.3f must be positive", in.SlotHours), nil)
	}
	if in.BudgetHours <= 0 {
		return types.NewAppError(types.ErrCodeInfeasible,
			fmt.Sprintf("arrival budget %.3f hours already exhausted", in.BudgetHours), nil)
	}
	if in.StartHour < 0 {
		return types.NewAppError(types.ErrCodeInvalidTimeKey,
			fmt.Sprintf("start hour %.3f is negative", in.StartHour), nil)
	}
	return nil
}

// DiscretizeSpeeds returns count engine-speed candidates evenly spanning the
// bounds, both endpoints included.
func DiscretizeSpeeds(b physics.SpeedBounds, count int) []float64 {
	if count < 2 {
		return []float64{b.MaxKn}
	}
	speeds := make([]float64, count)
	step := (b.MaxKn - b.MinKn) / float64(count-1)
	for i := range speeds {
		speeds[i] = b.MinKn + float64(i)*step
	}
	return speeds
}

// ceilSlot maps an elapsed time in hours onto its conservative slot number.
func ceilSlot(hours, dt float64) int32 {
	return int32(math.Ceil(hours / dt))
}

// Plan runs the forward labeling search and extracts the minimum-fuel leg
// schedule. It fails with Infeasible when no state at the final node lands
// within the budget; the error's details carry the minimum achievable
// arrival time when any terminal state was reachable at all.
func Plan(in Inputs) (types.Schedule, error) {
	if err := in.validate(); err != nil {
		return types.Schedule{}, err
	}

	dt := in.SlotHours
	// Admissible states satisfy slot*dt <= budget. The cutoff floors, never
	// ceils: ceiling here would admit arrivals up to one slot past the budget
	// and an over-budget plan could appear feasible.
	maxSlot := int32(math.Floor(in.BudgetHours / dt))

	a := newArena()
	a.relax(stateRec{node: 0, slot: 0, fuel: 0, prev: -1})

	// Best-effort diagnostic: the earliest over-budget arrival seen at the
	// destination, reported when the budget turns out unreachable.
	minBeyondBudget := -1.0

	// Forward pass: legs only move forward, so processing states in
	// increasing node order, and slots ascending within a node, visits every
	// predecessor before its successors.
	for n := 0; n < len(in.Legs); n++ {
		leg := in.Legs[n]
		weatherNode := in.NodeBase + n

		for s := int32(0); s <= maxSlot; s++ {
			id, ok := a.lookup(int32(n), s)
			if !ok {
				continue
			}
			elapsed := float64(s) * dt
			cur := *a.at(id)

			hour := int(in.StartHour + elapsed)
			sample, err := in.Weather.Sample(weatherNode, hour)
			if err != nil {
				// Coverage gaps degrade to the missing-sample convention;
				// boundary violations abort the run.
				var appErr *types.AppError
				if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeMissingData {
					return types.Schedule{}, err
				}
				sample = types.MissingSample()
			}

			for _, v := range in.Speeds {
				sog := in.Model.GroundSpeed(v, sample, leg.BearingDeg)
				if math.Round(sog) <= 0 {
					continue // cannot make way; a normal discard, not an error
				}
				hours := leg.DistanceNm / sog
				newSlot := ceilSlot(elapsed+hours, dt)
				if newSlot > maxSlot {
					if n+1 == len(in.Legs) {
						arrival := float64(newSlot) * dt
						if minBeyondBudget < 0 || arrival < minBeyondBudget {
							minBeyondBudget = arrival
						}
					}
					continue
				}
				legFuel := in.Model.FuelRate(v) * hours
				a.relax(stateRec{
					node:     int32(n + 1),
					slot:     newSlot,
					fuel:     cur.fuel + legFuel,
					prev:     id,
					engineKn: v,
					groundKn: sog,
					hours:    hours,
					legFuel:  legFuel,
				})
			}
		}
	}

	// Terminal selection: the cheapest final-node state within budget.
	lastNode := int32(len(in.Legs))
	bestID := int32(-1)
	for s := int32(0); s <= maxSlot; s++ {
		id, ok := a.lookup(lastNode, s)
		if !ok {
			continue
		}
		if bestID < 0 || a.at(id).fuel < a.at(bestID).fuel {
			bestID = id
		}
	}
	if bestID < 0 {
		details := map[string]any{"budget_hours": in.BudgetHours}
		if minBeyondBudget >= 0 {
			details["min_arrival_hours"] = minBeyondBudget
		}
		return types.Schedule{}, types.NewAppErrorWithDetails(types.ErrCodeInfeasible,
			fmt.Sprintf("no schedule reaches the destination within %.2f hours", in.BudgetHours),
			nil, details)
	}

	return extract(a, bestID, in.NodeBase, len(in.Legs)), nil
}

// extract backtracks from the terminal state to the root and emits the
// leg-indexed schedule.
func extract(a *arena, terminal int32, nodeBase, legCount int) types.Schedule {
	decisions := make([]types.LegDecision, legCount)
	id := terminal
	for i := legCount - 1; i >= 0; i-- {
		rec := a.at(id)
		decisions[i] = types.LegDecision{
			Leg:           nodeBase + i,
			GroundSpeedKn: rec.groundKn,
			EngineSpeedKn: rec.engineKn,
			PlannedHours:  rec.hours,
			PlannedFuelT:  rec.legFuel,
		}
		id = rec.prev
	}
	return types.NewLegSchedule(decisions)
}
