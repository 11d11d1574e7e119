package optimizer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"seaplan/internal/types"
)

// SweepConcurrencyLimit bounds the number of DP invocations running at once
// during a sensitivity sweep.
const SweepConcurrencyLimit = 4

// SweepResult pairs one sweep configuration's outcome with its input index.
// Err is an Infeasible (or validation) error for that configuration only.
type SweepResult struct {
	Index    int
	Schedule types.Schedule
	Err      error
}

// Sweep evaluates many independent DP configurations in parallel and returns
// their results in input order. Each invocation owns its state arena and
// reads only immutable shared inputs, so configurations are the safe unit of
// parallelism; a single run is never parallelized internally. An infeasible
// configuration is isolated to its own result, never failing the sweep.
func Sweep(ctx context.Context, inputs []Inputs) []SweepResult {
	results := make([]SweepResult, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(SweepConcurrencyLimit)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = SweepResult{Index: i, Err: err}
				return nil
			}
			sched, err := Plan(in)
			results[i] = SweepResult{Index: i, Schedule: sched, Err: err}
			return nil
		})
	}

	// Workers only write their own slot and never return an error.
	_ = g.Wait()
	return results
}
