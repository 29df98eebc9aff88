// Package engine decides which vehicle serves which orders and in what
// sequence, minimizing the batch makespan. Small instances are solved
// exactly by partition enumeration; everything else goes through a
// capacity-aware greedy insertion heuristic.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fleetopt/internal/config"
	"fleetopt/internal/metrics"
	"fleetopt/internal/model"
)

// Solver is the common contract for assignment producers: the in-process
// engine and any out-of-process exact tool both satisfy it with
// structurally identical results.
type Solver interface {
	Name() string
	Solve(ctx context.Context, vehicles []model.Vehicle, orders []model.Order) (*Result, error)
}

// Engine is the in-process reference implementation.
type Engine struct {
	cfg config.Engine
	log *zap.Logger
}

func New(cfg config.Engine, log *zap.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

func (e *Engine) Name() string { return "engine" }

// Solve implements Solver.
func (e *Engine) Solve(ctx context.Context, vehicles []model.Vehicle, orders []model.Order) (*Result, error) {
	return e.Optimize(ctx, vehicles, orders)
}

// Optimize runs one batch. Input is validated up front; validation
// failures surface to the caller and nothing is recovered internally.
// Once the search starts it runs to completion — cancellation does not
// propagate into the enumeration, which the size gate keeps bounded.
func (e *Engine) Optimize(_ context.Context, vehicles []model.Vehicle, orders []model.Order) (*Result, error) {
	if err := model.ValidateFleet(vehicles, orders); err != nil {
		metrics.OptimizeRuns.WithLabelValues("none", "invalid").Inc()
		return nil, err
	}

	p := Params{DwellMin: e.cfg.DwellMin, SpeedKmh: e.cfg.SpeedKmh}
	start := time.Now()

	strategy := "heuristic"
	var res *Result
	if len(orders) <= e.cfg.MaxExactOrders && len(vehicles) <= e.cfg.MaxExactVehicles {
		res = solveExact(vehicles, orders, p, e.log)
		if res != nil {
			strategy = "exact"
		} else {
			e.log.Info("no feasible exact partition, falling back to heuristic",
				zap.Int("orders", len(orders)), zap.Int("vehicles", len(vehicles)))
		}
	}
	if res == nil {
		res = solveGreedy(vehicles, orders, p, e.log)
	}

	res.BatchID = uuid.New().String()
	res.Strategy = strategy

	elapsed := time.Since(start)
	metrics.OptimizeRuns.WithLabelValues(strategy, "ok").Inc()
	metrics.OptimizeDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	metrics.UnassignedOrders.Observe(float64(res.Stats.Unassigned))

	e.log.Info("optimization complete",
		zap.String("batch", res.BatchID),
		zap.String("strategy", strategy),
		zap.Int("vehicles", len(vehicles)),
		zap.Int("orders", len(orders)),
		zap.Int("unassigned", res.Stats.Unassigned),
		zap.Float64("makespanMin", res.Stats.MakespanMin),
		zap.Duration("elapsed", elapsed))
	return res, nil
}
