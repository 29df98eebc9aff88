// Command fleetopt runs one assignment batch: it reads a fleet input file
// (vehicles and orders), optimizes the assignment, optionally enriches each
// vehicle's route with road geometry from the route provider, and writes
// the result as JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fleetopt/internal/config"
	"fleetopt/internal/engine"
	"fleetopt/internal/logging"
	"fleetopt/internal/metrics"
	"fleetopt/internal/model"
	"fleetopt/internal/routing"
)

type fleetInput struct {
	Vehicles []model.Vehicle `json:"vehicles"`
	Orders   []model.Order   `json:"orders"`
}

type output struct {
	*engine.Result
	Geometry map[int]routing.Route `json:"geometry,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	inputPath := flag.String("input", "", "path to fleet input JSON (required)")
	enrich := flag.Bool("enrich", false, "fetch road geometry per vehicle from the route provider")
	solverPath := flag.String("solver", "", "path to an external exact solver binary (optional)")
	flag.Parse()

	// missing .env is fine, the plain environment is used
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()
	metrics.RegisterDefault()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fleetopt -input fleet.json [-config config.yaml] [-enrich] [-solver path]")
		os.Exit(2)
	}
	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal("read input", zap.Error(err))
	}
	var in fleetInput
	if err := json.Unmarshal(data, &in); err != nil {
		log.Fatal("parse input", zap.Error(err))
	}

	ctx := context.Background()

	var solver engine.Solver = engine.New(cfg.Engine, log)
	if *solverPath != "" {
		external := &engine.ExternalSolver{Path: *solverPath, Timeout: 30 * time.Second, Log: log}
		solver = engine.SolverWithFallback(external, solver.(*engine.Engine), log)
	}

	res, err := solver.Solve(ctx, in.Vehicles, in.Orders)
	if err != nil {
		if model.IsValidation(err) {
			log.Error("invalid fleet input", zap.Error(err))
			os.Exit(1)
		}
		log.Fatal("optimization failed", zap.Error(err))
	}

	out := output{Result: res}
	if *enrich {
		cache, cleanup, err := buildCache(ctx, cfg.Cache)
		if err != nil {
			log.Fatal("route cache", zap.Error(err))
		}
		defer cleanup()
		client := routing.NewClient(cfg.Provider, cache, log)
		out.Geometry = enrichGeometry(ctx, client, in.Vehicles, res)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal("encode result", zap.Error(err))
	}
}

// buildCache selects the provider cache backend from config.
func buildCache(ctx context.Context, cfg config.Cache) (routing.RouteCache, func(), error) {
	switch cfg.Backend {
	case "", "memory":
		return routing.NewMemoryCache(cfg.TTL, cfg.MaxEntries), func() {}, nil
	case "redis":
		c, err := routing.NewRedisCache(cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	case "postgres":
		c, err := routing.NewPGCache(cfg.DatabaseURL, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		if err := c.Init(ctx); err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// enrichGeometry fetches road geometry for every vehicle with a route.
// Requests run concurrently; the provider client and its cache are safe
// for that, and each failure degrades to straight-line geometry on its own.
func enrichGeometry(ctx context.Context, client *routing.Client, vehicles []model.Vehicle, res *engine.Result) map[int]routing.Route {
	byID := make(map[int]model.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[int]routing.Route, len(res.RouteDetails))
	)
	for vid, stops := range res.RouteDetails {
		if len(stops) == 0 {
			continue
		}
		v := byID[vid]
		waypoints := make([]model.Point, 0, len(stops)+2)
		waypoints = append(waypoints, v.Home)
		for _, s := range stops {
			waypoints = append(waypoints, s.Point)
		}
		waypoints = append(waypoints, v.Home)

		wg.Add(1)
		go func(vid int, waypoints []model.Point) {
			defer wg.Done()
			r := client.FetchRoute(ctx, waypoints)
			mu.Lock()
			out[vid] = r
			mu.Unlock()
		}(vid, waypoints)
	}
	wg.Wait()
	return out
}
