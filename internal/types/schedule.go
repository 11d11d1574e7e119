package types

import "fmt"

// ScheduleKind tags the granularity of a Schedule.
type ScheduleKind string

const (
	// ScheduleByLeg carries one decision per spatial-node transition
	// (the DP optimizer's shape).
	ScheduleByLeg ScheduleKind = "by_leg"
	// ScheduleBySegment carries one decision per multi-leg segment
	// (the delegate segment-averaged optimizer's shape).
	ScheduleBySegment ScheduleKind = "by_segment"
)

// LegDecision is one committed per-leg speed decision. GroundSpeedKn is the
// operative target; EngineSpeedKn is the engine speed assumed during planning
// and is retained for diagnostics only.
type LegDecision struct {
	Leg           int     `json:"leg"`
	GroundSpeedKn float64 `json:"ground_speed_kn"`
	EngineSpeedKn float64 `json:"engine_speed_kn"`
	PlannedHours  float64 `json:"planned_hours"`
	PlannedFuelT  float64 `json:"planned_fuel_t"`
}

// SegmentDecision is one committed multi-leg speed decision. FirstLeg and
// LastLeg bound the covered leg range, both inclusive.
type SegmentDecision struct {
	Segment       int     `json:"segment"`
	FirstLeg      int     `json:"first_leg"`
	LastLeg       int     `json:"last_leg"`
	GroundSpeedKn float64 `json:"ground_speed_kn"`
	EngineSpeedKn float64 `json:"engine_speed_kn"`
	PlannedHours  float64 `json:"planned_hours"`
	PlannedFuelT  float64 `json:"planned_fuel_t"`
}

// Schedule is a tagged variant over the two schedule shapes. Exactly one of
// ByLeg and BySegment is populated, selected by Kind. Consumers switch
// exhaustively on Kind; runtime field probing is not used. Schedules are
// immutable once produced.
type Schedule struct {
	Kind      ScheduleKind      `json:"kind"`
	ByLeg     []LegDecision     `json:"by_leg,omitempty"`
	BySegment []SegmentDecision `json:"by_segment,omitempty"`
}

// NewLegSchedule wraps per-leg decisions into a tagged Schedule.
func NewLegSchedule(decisions []LegDecision) Schedule {
	return Schedule{Kind: ScheduleByLeg, ByLeg: decisions}
}

// NewSegmentSchedule wraps per-segment decisions into a tagged Schedule.
func NewSegmentSchedule(decisions []SegmentDecision) Schedule {
	return Schedule{Kind: ScheduleBySegment, BySegment: decisions}
}

// Validate checks the schedule's shape against a route with legCount legs:
// the tag must match the populated slice, and the decisions must cover the
// legs [0, legCount) exactly once, in order, with no gaps or overlaps.
func (s Schedule) Validate(legCount int) error {
	switch s.Kind {
	case ScheduleByLeg:
		if s.BySegment != nil {
			return NewAppError(ErrCodeInvalidSchedule, "by_leg schedule carries segment decisions", nil)
		}
		if len(s.ByLeg) != legCount {
			return NewAppError(ErrCodeInvalidSchedule,
				fmt.Sprintf("schedule has %d leg decisions, route has %d legs", len(s.ByLeg), legCount), nil)
		}
		for i, d := range s.ByLeg {
			if d.Leg != i {
				return NewAppError(ErrCodeInvalidSchedule,
					fmt.Sprintf("leg decision %d is for leg %d", i, d.Leg), nil)
			}
			if d.GroundSpeedKn <= 0 {
				return NewAppError(ErrCodeInvalidSchedule,
					fmt.Sprintf("leg %d has non-positive ground speed %.3f", i, d.GroundSpeedKn), nil)
			}
		}
		return nil
	case ScheduleBySegment:
		if s.ByLeg != nil {
			return NewAppError(ErrCodeInvalidSchedule, "by_segment schedule carries leg decisions", nil)
		}
		nextLeg := 0
		for i, d := range s.BySegment {
			if d.Segment != i {
				return NewAppError(ErrCodeInvalidSchedule,
					fmt.Sprintf("segment decision %d is for segment %d", i, d.Segment), nil)
			}
			if d.FirstLeg != nextLeg || d.LastLeg < d.FirstLeg {
				return NewAppError(ErrCodeInvalidSchedule,
					fmt.Sprintf("segment %d covers legs [%d,%d], expected to start at %d", i, d.FirstLeg, d.LastLeg, nextLeg), nil)
			}
			if d.GroundSpeedKn <= 0 {
				return NewAppError(ErrCodeInvalidSchedule,
					fmt.Sprintf("segment %d has non-positive ground speed %.3f", i, d.GroundSpeedKn), nil)
			}
			nextLeg = d.LastLeg + 1
		}
		if nextLeg != legCount {
			return NewAppError(ErrCodeInvalidSchedule,
				fmt.Sprintf("segments cover legs [0,%d), route has %d legs", nextLeg, legCount), nil)
		}
		return nil
	default:
		return NewAppError(ErrCodeInvalidSchedule, fmt.Sprintf("unknown schedule kind %q", s.Kind), nil)
	}
}

// Units returns the number of decision units in the schedule.
func (s Schedule) Units() int {
	if s.Kind == ScheduleBySegment {
		return len(s.BySegment)
	}
	return len(s.ByLeg)
}

// PlannedHours sums the planned elapsed time over all units.
func (s Schedule) PlannedHours() float64 {
	var total float64
	switch s.Kind {
	case ScheduleBySegment:
		for _, d := range s.BySegment {
			total += d.PlannedHours
		}
	default:
		for _, d := range s.ByLeg {
			total += d.PlannedHours
		}
	}
	return total
}

// PlannedFuelT sums the planned fuel over all units.
func (s Schedule) PlannedFuelT() float64 {
	var total float64
	switch s.Kind {
	case ScheduleBySegment:
		for _, d := range s.BySegment {
			total += d.PlannedFuelT
		}
	default:
		for _, d := range s.ByLeg {
			total += d.PlannedFuelT
		}
	}
	return total
}
