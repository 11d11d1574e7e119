// Package weather implements the read-only weather grid the optimizer and
// simulator query, plus the store backends that materialize it: a
// zstd-compressed snapshot file and a PostgreSQL repository, both producing
// the same fully in-memory Grid before any optimization begins.
//
// The grid exposes two query surfaces. "Actual" is ground truth indexed by
// (node, hour). "Predicted" is indexed by (node, issue_hour, target_hour)
// with issue_hour <= target_hour. Time keys are non-negative integer hours
// from voyage start; anything else is rejected at the boundary. Queries past
// a forecast's modeled horizon are extended by the configured policy
// (persistence by default) - a documented approximation, not a bug.
package weather

import (
	"fmt"
	"sort"

	"seaplan/internal/types"
)

// Record is one row of the backing store's logical schema: a weather sample
// for one node at one hour. ForecastHour is nil for ground-truth rows and
// holds the issue hour for predicted rows. Field pointers are nil where the
// store has no coverage (coastal nodes); they surface as NaN.
type Record struct {
	NodeID        int
	SampleHour    int
	ForecastHour  *int
	WindKmh       *float64
	WindDirDeg    *float64
	WaveHeightM   *float64
	CurrentKmh    *float64
	CurrentDirDeg *float64
}

// Source is the fixed-view query surface consumed by the optimizer and the
// simulator: one weather sample per (node, hour), with the grid's issue-time
// dimension already bound.
type Source interface {
	Sample(node, hour int) (types.WeatherSample, error)
}

// Grid is the materialized weather lookup structure. It is immutable after
// construction and safe for concurrent readers.
type Grid struct {
	nodeCount int
	policy    ExtensionPolicy

	actual        map[int]map[int]types.WeatherSample // node -> hour -> sample
	actualMaxHour int

	predicted map[int]map[int]map[int]types.WeatherSample // node -> issue -> target -> sample
	issues    []int                                       // ascending
	horizon   map[int]int                                 // issue -> max target hour
}

// ValidateHour rejects negative time keys with InvalidTimeKey. Fractional
// keys cannot reach this point through the typed API; the store loaders
// reject them where raw numeric data enters.
func ValidateHour(hour int) error {
	if hour < 0 {
		return types.NewAppError(types.ErrCodeInvalidTimeKey,
			fmt.Sprintf("time key %d is negative", hour), nil)
	}
	return nil
}

// HourFromFloat converts a raw numeric time key from a backing store into an
// integer hour, rejecting fractional or negative values with InvalidTimeKey.
// This is the boundary where the integer-hour contract is enforced.
func HourFromFloat(raw float64) (int, error) {
	h := int(raw)
	if float64(h) != raw || raw < 0 {
		return 0, types.NewAppError(types.ErrCodeInvalidTimeKey,
			fmt.Sprintf("time key %v is not a non-negative integer hour", raw), nil)
	}
	return h, nil
}

// NewGrid materializes a grid for nodeCount route nodes from store records.
// A nil policy defaults to persistence.
func NewGrid(nodeCount int, records []Record, policy ExtensionPolicy) (*Grid, error) {
	if policy == nil {
		policy = PersistPolicy{}
	}
	g := &Grid{
		nodeCount: nodeCount,
		policy:    policy,
		actual:    make(map[int]map[int]types.WeatherSample),
		predicted: make(map[int]map[int]map[int]types.WeatherSample),
		horizon:   make(map[int]int),
	}

	issueSet := make(map[int]bool)
	for _, rec := range records {
		if rec.NodeID < 0 || rec.NodeID >= nodeCount {
			return nil, types.NewAppError(types.ErrCodeStoreCorrupt,
				fmt.Sprintf("record references node %d outside [0,%d)", rec.NodeID, nodeCount), nil)
		}
		if err := ValidateHour(rec.SampleHour); err != nil {
			return nil, err
		}
		sample := sampleFromRecord(rec)

		if rec.ForecastHour == nil {
			byHour := g.actual[rec.NodeID]
			if byHour == nil {
				byHour = make(map[int]types.WeatherSample)
				g.actual[rec.NodeID] = byHour
			}
			byHour[rec.SampleHour] = sample
			if rec.SampleHour > g.actualMaxHour {
				g.actualMaxHour = rec.SampleHour
			}
			continue
		}

		issue := *rec.ForecastHour
		if err := ValidateHour(issue); err != nil {
			return nil, err
		}
		if issue > rec.SampleHour {
			return nil, types.NewAppError(types.ErrCodeStoreCorrupt,
				fmt.Sprintf("forecast issued at hour %d targets earlier hour %d", issue, rec.SampleHour), nil)
		}
		byIssue := g.predicted[rec.NodeID]
		if byIssue == nil {
			byIssue = make(map[int]map[int]types.WeatherSample)
			g.predicted[rec.NodeID] = byIssue
		}
		byTarget := byIssue[issue]
		if byTarget == nil {
			byTarget = make(map[int]types.WeatherSample)
			byIssue[issue] = byTarget
		}
		byTarget[rec.SampleHour] = sample
		issueSet[issue] = true
		if maxT, ok := g.horizon[issue]; !ok || rec.SampleHour > maxT {
			g.horizon[issue] = rec.SampleHour
		}
	}

	for issue := range issueSet {
		g.issues = append(g.issues, issue)
	}
	sort.Ints(g.issues)
	return g, nil
}

func sampleFromRecord(rec Record) types.WeatherSample {
	deref := func(p *float64) float64 {
		if p == nil {
			return nan()
		}
		return *p
	}
	return types.NewWeatherSample(
		deref(rec.WindKmh),
		deref(rec.WindDirDeg),
		deref(rec.WaveHeightM),
		deref(rec.CurrentKmh),
		deref(rec.CurrentDirDeg),
	)
}

// Actual returns the ground-truth sample for a node and hour. Hours beyond
// the store's actual coverage fail with MissingData; nodes inside the route
// but without store rows yield a NaN sample (the coastal convention).
func (g *Grid) Actual(node, hour int) (types.WeatherSample, error) {
	if err := ValidateHour(hour); err != nil {
		return types.WeatherSample{}, err
	}
	if node < 0 || node >= g.nodeCount {
		return types.WeatherSample{}, types.NewAppError(types.ErrCodeMissingData,
			fmt.Sprintf("node %d outside route [0,%d)", node, g.nodeCount), nil)
	}
	if hour > g.actualMaxHour {
		return types.WeatherSample{}, types.NewAppError(types.ErrCodeMissingData,
			fmt.Sprintf("hour %d beyond actual coverage (max %d)", hour, g.actualMaxHour), nil)
	}
	byHour, ok := g.actual[node]
	if !ok {
		return types.MissingSample(), nil
	}
	sample, ok := byHour[hour]
	if !ok {
		return types.MissingSample(), nil
	}
	return sample, nil
}

// Predicted returns the sample forecast at issue hour for target hour.
// Targets beyond the issue's modeled horizon are extended by the grid's
// policy from the last modeled sample.
func (g *Grid) Predicted(node, issue, target int) (types.WeatherSample, error) {
	if err := ValidateHour(issue); err != nil {
		return types.WeatherSample{}, err
	}
	if err := ValidateHour(target); err != nil {
		return types.WeatherSample{}, err
	}
	if target < issue {
		return types.WeatherSample{}, types.NewAppError(types.ErrCodeInvalidTimeKey,
			fmt.Sprintf("target hour %d precedes issue hour %d", target, issue), nil)
	}
	if node < 0 || node >= g.nodeCount {
		return types.WeatherSample{}, types.NewAppError(types.ErrCodeMissingData,
			fmt.Sprintf("node %d outside route [0,%d)", node, g.nodeCount), nil)
	}
	maxTarget, ok := g.horizon[issue]
	if !ok {
		return types.WeatherSample{}, types.NewAppError(types.ErrCodeMissingData,
			fmt.Sprintf("no forecast issued at hour %d", issue), nil)
	}

	byIssue, ok := g.predicted[node]
	if !ok {
		return types.MissingSample(), nil
	}
	byTarget, ok := byIssue[issue]
	if !ok {
		return types.MissingSample(), nil
	}

	if target > maxTarget {
		last, ok := byTarget[maxTarget]
		if !ok {
			return types.MissingSample(), nil
		}
		return g.policy.Extend(last, maxTarget, target), nil
	}
	sample, ok := byTarget[target]
	if !ok {
		return types.MissingSample(), nil
	}
	return sample, nil
}

// Issues returns the forecast issue hours present in the store, ascending.
func (g *Grid) Issues() []int {
	out := make([]int, len(g.issues))
	copy(out, g.issues)
	return out
}

// IssueAtOrBefore returns the freshest forecast issue hour not after the
// given hour. When every issue is newer than hour it reports false; callers
// typically fall back to the oldest issue.
func (g *Grid) IssueAtOrBefore(hour int) (int, bool) {
	best, found := 0, false
	for _, issue := range g.issues {
		if issue <= hour {
			best, found = issue, true
		}
	}
	return best, found
}

// ActualView binds the grid's ground-truth surface as a Source.
func (g *Grid) ActualView() Source {
	return sourceFunc(func(node, hour int) (types.WeatherSample, error) {
		return g.Actual(node, hour)
	})
}

// PredictedView binds one forecast vintage as a Source.
func (g *Grid) PredictedView(issue int) Source {
	return sourceFunc(func(node, hour int) (types.WeatherSample, error) {
		return g.Predicted(node, issue, hour)
	})
}

type sourceFunc func(node, hour int) (types.WeatherSample, error)

func (f sourceFunc) Sample(node, hour int) (types.WeatherSample, error) {
	return f(node, hour)
}
