package sim

import "seaplan/internal/types"

// legTarget is the per-leg planning intent the replay loop consumes,
// regardless of the schedule's original granularity.
type legTarget struct {
	groundKn float64
	engineKn float64
}

func targetsFromLegs(decisions []types.LegDecision) []legTarget {
	targets := make([]legTarget, len(decisions))
	for i, d := range decisions {
		targets[i] = legTarget{groundKn: d.GroundSpeedKn, engineKn: d.EngineSpeedKn}
	}
	return targets
}

// targetsFromSegments expands segment decisions onto the legs they cover.
// The schedule has already been validated, so the segments partition
// [0, legCount) exactly.
func targetsFromSegments(decisions []types.SegmentDecision, legCount int) []legTarget {
	targets := make([]legTarget, legCount)
	for _, d := range decisions {
		for leg := d.FirstLeg; leg <= d.LastLeg && leg < legCount; leg++ {
			targets[leg] = legTarget{groundKn: d.GroundSpeedKn, engineKn: d.EngineSpeedKn}
		}
	}
	return targets
}
