package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"fleetopt/internal/model"
)

// solverRequest is the JSON handed to an external solver on stdin.
type solverRequest struct {
	Vehicles []model.Vehicle `json:"vehicles"`
	Orders   []model.Order   `json:"orders"`
}

// ExternalSolver invokes a separate constrained VRP solver as an
// out-of-process tool: request JSON on stdin, a Result JSON on stdout.
// The in-process engine remains the reference implementation; wrap both
// with SolverWithFallback so a broken tool degrades instead of failing
// the batch.
type ExternalSolver struct {
	Path    string
	Timeout time.Duration
	Log     *zap.Logger
}

func (s *ExternalSolver) Name() string { return "external" }

func (s *ExternalSolver) Solve(ctx context.Context, vehicles []model.Vehicle, orders []model.Order) (*Result, error) {
	if err := model.ValidateFleet(vehicles, orders); err != nil {
		return nil, err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(solverRequest{Vehicles: vehicles, Orders: orders})
	if err != nil {
		return nil, fmt.Errorf("encode solver request: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Path)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("external solver %s: %w (stderr: %s)", s.Path, err, stderr.String())
	}

	var res Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, fmt.Errorf("decode solver output: %w", err)
	}
	if res.Assignments == nil {
		return nil, fmt.Errorf("external solver %s returned no assignments", s.Path)
	}
	res.Strategy = "external"
	return &res, nil
}

type fallbackSolver struct {
	primary  Solver
	fallback Solver
	log      *zap.Logger
}

// SolverWithFallback answers from primary and falls back when it errors.
// Validation failures are not retried: malformed input fails the same way
// everywhere.
func SolverWithFallback(primary, fallback Solver, log *zap.Logger) Solver {
	return &fallbackSolver{primary: primary, fallback: fallback, log: log}
}

func (f *fallbackSolver) Name() string { return f.primary.Name() }

func (f *fallbackSolver) Solve(ctx context.Context, vehicles []model.Vehicle, orders []model.Order) (*Result, error) {
	res, err := f.primary.Solve(ctx, vehicles, orders)
	if err == nil {
		return res, nil
	}
	if model.IsValidation(err) {
		return nil, err
	}
	f.log.Warn("primary solver failed, using fallback",
		zap.String("primary", f.primary.Name()),
		zap.String("fallback", f.fallback.Name()),
		zap.Error(err))
	return f.fallback.Solve(ctx, vehicles, orders)
}
