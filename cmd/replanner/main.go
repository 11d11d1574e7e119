// Package main is the entrypoint for the rolling-horizon replanner. It loads
// the weather store, runs the rolling-horizon controller (one DP invocation
// per decision point, each against the freshest forecast issue), replays the
// stitched schedule against ground truth, and writes a JSON report with the
// full decision log to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"seaplan/internal/config"
	"seaplan/internal/optimizer"
	"seaplan/internal/physics"
	"seaplan/internal/replan"
	"seaplan/internal/route"
	"seaplan/internal/sim"
	"seaplan/internal/types"
	"seaplan/internal/weather"
)

// report is the JSON document written to stdout. Simulation is omitted when
// the run failed mid-voyage; the committed prefix and decision log are still
// reported for diagnostics.
type report struct {
	Plan       *types.PlanResult       `json:"plan"`
	Simulation *types.SimulationResult `json:"simulation,omitempty"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "replanner: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	snap, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	rt, err := route.Build(snap.Nodes)
	if err != nil {
		return err
	}
	grid, err := weather.NewGrid(len(rt.Nodes), snap.Records, weather.PersistPolicy{})
	if err != nil {
		return err
	}

	model := physics.ShipModel{
		Table:         physics.DefaultCoefficients(),
		DesignSpeedKn: cfg.Ship.DesignSpeedKn,
		WaterlineM:    cfg.Ship.WaterlineM,
		FuelCoeffT:    cfg.Ship.FuelCoeffT,
		FuelExponent:  cfg.Ship.FuelExponent,
	}
	bounds := physics.SpeedBounds{MinKn: cfg.Voyage.EngineSpeedMinKn, MaxKn: cfg.Voyage.EngineSpeedMaxKn}

	controller := replan.New(replan.Config{
		Grid:          grid,
		Route:         rt,
		Model:         model,
		Speeds:        optimizer.DiscretizeSpeeds(bounds, cfg.Voyage.SpeedCount),
		BudgetHours:   cfg.Voyage.BudgetHours,
		SlotHours:     cfg.Voyage.SlotHours,
		IntervalHours: cfg.Voyage.ReplanIntervalHours,
		Logger:        logger,
	})

	plan, runErr := controller.Run(ctx)
	out := report{Plan: plan}

	if runErr == nil {
		simulator := sim.New(sim.Config{
			Route:       rt,
			Weather:     grid.ActualView(),
			Model:       model,
			Bounds:      bounds,
			BudgetHours: cfg.Voyage.BudgetHours,
			Logger:      logger,
		})
		result, err := simulator.Run(plan.Schedule)
		if err != nil {
			return err
		}
		out.Simulation = result
	} else {
		var appErr *types.AppError
		if !errors.As(runErr, &appErr) || appErr.Code != types.ErrCodeReplanFailed {
			return runErr
		}
		logger.Error("replanning failed, reporting committed prefix", "error", runErr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return runErr
}

// loadStore materializes the weather snapshot from PostgreSQL when
// DATABASE_URL is set, falling back to the zstd snapshot file otherwise.
func loadStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*weather.Snapshot, error) {
	if cfg.Store.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeStoreUnavailable, "connecting to weather store", err)
		}
		defer pool.Close()
		return weather.NewStoreRepository(pool).Load(ctx)
	}
	return weather.LoadSnapshot(cfg.Store.SnapshotPath, logger)
}
