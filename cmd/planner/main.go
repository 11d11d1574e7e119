// Package main is the entrypoint for the single-horizon planner. It loads
// the weather store, runs one DP optimization over the full route with the
// configured forecast vintage (or ground truth), replays the resulting
// schedule against the configured weather surface, and writes a JSON report
// to stdout.
//
// This file handles dependency wiring only; all planning logic lives in the
// internal packages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"seaplan/internal/config"
	"seaplan/internal/optimizer"
	"seaplan/internal/physics"
	"seaplan/internal/route"
	"seaplan/internal/sim"
	"seaplan/internal/types"
	"seaplan/internal/weather"
)

// report is the JSON document written to stdout.
type report struct {
	Schedule   types.Schedule          `json:"schedule"`
	Simulation *types.SimulationResult `json:"simulation"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "planner: %v\n", err)
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

	planSource := grid.ActualView()
	if cfg.Voyage.WeatherSource == config.WeatherSourcePredicted {
		planSource = grid.PredictedView(cfg.Voyage.ForecastIssueHour)
	}

	sched, err := optimizer.Plan(optimizer.Inputs{
		Legs:        rt.Legs,
		Weather:     weather.NewFallback(planSource),
		Model:       model,
		Speeds:      optimizer.DiscretizeSpeeds(bounds, cfg.Voyage.SpeedCount),
		BudgetHours: cfg.Voyage.BudgetHours,
		SlotHours:   cfg.Voyage.SlotHours,
	})
	if err != nil {
		return err
	}

	simulator := sim.New(sim.Config{
		Route:       rt,
		Weather:     grid.ActualView(),
		Model:       model,
		Bounds:      bounds,
		BudgetHours: cfg.Voyage.BudgetHours,
		Logger:      logger,
	})
	result, err := simulator.Run(sched)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report{Schedule: sched, Simulation: result})
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
