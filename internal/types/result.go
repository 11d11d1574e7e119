package types

// LegOutcome is one row of the simulator's per-leg time series.
type LegOutcome struct {
	Leg             int     `json:"leg"`
	DistanceNm      float64 `json:"distance_nm"`
	PlannedSpeedKn  float64 `json:"planned_ground_speed_kn"`
	ActualSpeedKn   float64 `json:"actual_ground_speed_kn"`
	PlannedEngineKn float64 `json:"planned_engine_speed_kn"`
	ActualEngineKn  float64 `json:"actual_engine_speed_kn"`
	Hours           float64 `json:"hours"`
	FuelT           float64 `json:"fuel_t"`
	ElapsedHours    float64 `json:"elapsed_hours"`    // running total at leg end
	CumulativeFuelT float64 `json:"cumulative_fuel_t"` // running total at leg end
	Clamped         bool    `json:"clamped,omitempty"`
	WeatherGap      bool    `json:"weather_gap,omitempty"`
	Stalled         bool    `json:"stalled,omitempty"` // made no way; replay stops here
}

// SimulationResult aggregates a full replay of a schedule against a weather
// source. Violations and weather gaps are recorded, never raised as errors;
// the simulator's purpose is to quantify plan-vs-reality divergence.
type SimulationResult struct {
	RunID                 string       `json:"run_id"`
	Legs                  []LegOutcome `json:"legs"`
	TotalFuelT            float64      `json:"total_fuel_t"`
	TotalHours            float64      `json:"total_hours"`
	ArrivalDeviationHours float64      `json:"arrival_deviation_hours"` // actual minus budget
	SpeedChanges          int          `json:"speed_changes"`
	ClampViolations       int          `json:"clamp_violations"`
	WeatherGaps           int          `json:"weather_gaps"`
	StalledLegs           int          `json:"stalled_legs,omitempty"`
}

// DecisionPoint records one transition of the rolling-horizon controller into
// planning: when it happened, what remained of the voyage, which forecast
// vintage was used, and the partial schedule the optimizer produced.
type DecisionPoint struct {
	Hour                 float64  `json:"hour"`
	IssueHour            int      `json:"issue_hour"`
	RemainingNm          float64  `json:"remaining_nm"`
	RemainingBudgetHours float64  `json:"remaining_budget_hours"`
	Partial              Schedule `json:"partial"`
}

// PlanResult is the stitched outcome of a rolling-horizon run. When a re-plan
// fails mid-voyage, Failed is set and Schedule holds the prefix of legs that
// were already committed; those remain reportable for diagnostics.
type PlanResult struct {
	RunID          string          `json:"run_id"`
	Schedule       Schedule        `json:"schedule"`
	DecisionPoints []DecisionPoint `json:"decision_points"`
	Failed         bool            `json:"failed,omitempty"`
}
