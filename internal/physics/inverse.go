package physics

import (
	"fmt"

	"seaplan/internal/types"
)

// SpeedBounds is the admissible engine-speed range, knots.
type SpeedBounds struct {
	MinKn float64
	MaxKn float64
}

// Bisection parameters. The solver retries once with a 10x widened tolerance
// before surfacing Infeasible for the query.
const (
	inverseToleranceKn = 1e-3
	inverseMaxIter     = 40
)

// EngineSpeedFor finds the engine speed within bounds whose achieved ground
// speed under the given weather matches targetGroundKn, by bisection over the
// monotone GroundSpeed probe.
//
// When the target exceeds what the ship can achieve at bounds.MaxKn the
// solver fails with an Infeasible error carrying the maximum achievable
// ground speed; it never silently clamps. A target below the ground speed at
// bounds.MinKn returns bounds.MinKn with no error: the caller observes the
// surplus by re-probing GroundSpeed at the returned setting.
func (m ShipModel) EngineSpeedFor(targetGroundKn float64, w types.WeatherSample, bearingDeg float64, b SpeedBounds) (float64, error) {
	maxAchievable := m.GroundSpeed(b.MaxKn, w, bearingDeg)
	if targetGroundKn > maxAchievable+inverseToleranceKn {
		return 0, types.NewAppErrorWithDetails(
			types.ErrCodeInfeasible,
			fmt.Sprintf("ground speed %.3f kn exceeds %.3f kn achievable at engine limit", targetGroundKn, maxAchievable),
			nil,
			map[string]any{"max_achievable_kn": maxAchievable},
		)
	}
	if m.GroundSpeed(b.MinKn, w, bearingDeg) >= targetGroundKn {
		return b.MinKn, nil
	}

	if v, ok := m.bisect(targetGroundKn, w, bearingDeg, b, inverseToleranceKn); ok {
		return v, nil
	}
	// Retry once with a widened tolerance before giving up on the query.
	if v, ok := m.bisect(targetGroundKn, w, bearingDeg, b, inverseToleranceKn*10); ok {
		return v, nil
	}
	return 0, types.NewAppErrorWithDetails(
		types.ErrCodeInfeasible,
		fmt.Sprintf("bisection did not converge for ground speed %.3f kn", targetGroundKn),
		nil,
		map[string]any{"max_achievable_kn": maxAchievable},
	)
}

// bisect runs the bounded bisection search. It reports failure only when the
// interval has not shrunk to tolerance within the iteration budget.
func (m ShipModel) bisect(target float64, w types.WeatherSample, bearingDeg float64, b SpeedBounds, tol float64) (float64, bool) {
	lo, hi := b.MinKn, b.MaxKn
	for i := 0; i < inverseMaxIter; i++ {
		mid := (lo + hi) / 2
		if m.GroundSpeed(mid, w, bearingDeg) < target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= tol {
			return hi, true
		}
	}
	return 0, false
}
