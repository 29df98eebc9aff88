package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fleetopt/internal/config"
	"fleetopt/internal/model"
)

func testEngine() *Engine {
	return New(config.Engine{
		MaxExactOrders:   12,
		MaxExactVehicles: 6,
		DwellMin:         10,
		SpeedKmh:         30,
	}, zap.NewNop())
}

// checkOrderSetInvariant verifies assigned + unassigned equals the input
// order set with no duplicates across vehicles.
func checkOrderSetInvariant(t *testing.T, res *Result, orders []model.Order) {
	t.Helper()
	seen := map[int]bool{}
	for vid, ids := range res.Assignments {
		for _, id := range ids {
			require.False(t, seen[id], "order %d assigned twice (vehicle %d)", id, vid)
			seen[id] = true
		}
	}
	for _, id := range res.Stats.UnassignedOrders {
		require.False(t, seen[id], "order %d both assigned and unassigned", id)
		seen[id] = true
	}
	require.Len(t, seen, len(orders))
	for _, o := range orders {
		require.True(t, seen[o.ID], "order %d lost", o.ID)
	}
	require.Equal(t, len(orders), res.Stats.Assigned+res.Stats.Unassigned)
}

func TestOptimizeRejectsMalformedInput(t *testing.T) {
	e := testEngine()
	_, err := e.Optimize(context.Background(), []model.Vehicle{{ID: 1, Capacity: 0}}, nil)
	require.Error(t, err)
	require.True(t, model.IsValidation(err))
}

func TestOptimizeExactRespectsCapacitySplit(t *testing.T) {
	home := pt(52.50, 13.40)
	vehicles := []model.Vehicle{
		{ID: 1, Home: home, Capacity: 100},
		{ID: 2, Home: home, Capacity: 100},
	}
	orders := []model.Order{
		{ID: 1, Pickup: pt(52.51, 13.41), Delivery: pt(52.52, 13.42), Weight: 60},
		{ID: 2, Pickup: pt(52.53, 13.43), Delivery: pt(52.54, 13.44), Weight: 50},
		{ID: 3, Pickup: pt(52.55, 13.45), Delivery: pt(52.56, 13.46), Weight: 40},
	}

	res, err := testEngine().Optimize(context.Background(), vehicles, orders)
	require.NoError(t, err)
	require.Equal(t, "exact", res.Strategy)
	require.NotEmpty(t, res.BatchID)
	require.Zero(t, res.Stats.Unassigned)
	checkOrderSetInvariant(t, res, orders)

	// 60+50=110 exceeds capacity on either vehicle
	for vid, vs := range res.Stats.Vehicles {
		require.LessOrEqual(t, vs.Load, 100.0, "vehicle %d overloaded", vid)
	}
}

func TestOptimizeExactIsOptimal(t *testing.T) {
	home := pt(52.50, 13.40)
	vehicles := []model.Vehicle{
		{ID: 1, Home: home, Capacity: 100},
		{ID: 2, Home: home, Capacity: 100},
	}
	orders := []model.Order{
		{ID: 1, Pickup: pt(52.51, 13.41), Delivery: pt(52.52, 13.42), Weight: 10},
		{ID: 2, Pickup: pt(52.60, 13.50), Delivery: pt(52.61, 13.51), Weight: 10},
		{ID: 3, Pickup: pt(52.45, 13.35), Delivery: pt(52.44, 13.34), Weight: 10},
		{ID: 4, Pickup: pt(52.55, 13.45), Delivery: pt(52.56, 13.46), Weight: 10},
	}

	res, err := testEngine().Optimize(context.Background(), vehicles, orders)
	require.NoError(t, err)
	require.Equal(t, "exact", res.Strategy)

	// exhaustively recompute every feasible partition's makespan; none may
	// beat the engine's choice
	p := DefaultParams()
	it := newPartitionIter(len(orders), len(vehicles))
	for {
		assign, ok := it.next()
		if !ok {
			break
		}
		loads := make([]float64, len(vehicles))
		feasible := true
		for oi, vi := range assign {
			loads[vi] += orders[oi].Weight
			if loads[vi] > vehicles[vi].Capacity {
				feasible = false
				break
			}
		}
		if !feasible {
			continue
		}
		makespan := 0.0
		for vi, v := range vehicles {
			list := ordersFor(assign, orders, vi)
			if len(list) == 0 {
				continue
			}
			st := ComputeStats(v, BuildRoute(v, list, zap.NewNop()), p)
			if st.TotalMin > makespan {
				makespan = st.TotalMin
			}
		}
		require.LessOrEqual(t, res.Stats.MakespanMin, makespan+1e-9)
	}
}

func TestOptimizeHeuristicReportsUnassigned(t *testing.T) {
	home := pt(52.50, 13.40)
	vehicles := []model.Vehicle{
		{ID: 1, Home: home, Capacity: 100},
		{ID: 2, Home: home, Capacity: 100},
		{ID: 3, Home: home, Capacity: 100},
	}
	// 20 orders of weight 30: total 600 against fleet capacity 300
	orders := make([]model.Order, 0, 20)
	for i := 1; i <= 20; i++ {
		orders = append(orders, model.Order{
			ID:       i,
			Pickup:   pt(52.50+float64(i)*0.001, 13.40),
			Delivery: pt(52.50+float64(i)*0.001, 13.41),
			Weight:   30,
		})
	}

	res, err := testEngine().Optimize(context.Background(), vehicles, orders)
	require.NoError(t, err)
	require.Equal(t, "heuristic", res.Strategy)
	require.NotEmpty(t, res.Stats.UnassignedOrders)
	checkOrderSetInvariant(t, res, orders)
	for vid, vs := range res.Stats.Vehicles {
		require.LessOrEqual(t, vs.Load, 100.0, "vehicle %d overloaded", vid)
	}
}

func TestOptimizeFallsBackWhenNoFeasiblePartition(t *testing.T) {
	vehicles := []model.Vehicle{{ID: 1, Home: pt(52.5, 13.4), Capacity: 50}}
	orders := []model.Order{
		{ID: 1, Pickup: pt(52.51, 13.41), Delivery: pt(52.52, 13.42), Weight: 40},
		{ID: 2, Pickup: pt(52.53, 13.43), Delivery: pt(52.54, 13.44), Weight: 40},
	}

	res, err := testEngine().Optimize(context.Background(), vehicles, orders)
	require.NoError(t, err)
	// total weight exceeds total capacity: exact finds nothing, the
	// heuristic assigns what fits and reports the rest
	require.Equal(t, "heuristic", res.Strategy)
	require.Equal(t, 1, res.Stats.Assigned)
	require.Equal(t, 1, res.Stats.Unassigned)
	checkOrderSetInvariant(t, res, orders)
}

func TestOptimizeEmptyOrderList(t *testing.T) {
	vehicles := []model.Vehicle{{ID: 1, Home: pt(52.5, 13.4), Capacity: 50}}
	res, err := testEngine().Optimize(context.Background(), vehicles, nil)
	require.NoError(t, err)
	require.Zero(t, res.Stats.Assigned)
	require.Zero(t, res.Stats.Unassigned)
	require.Zero(t, res.Stats.MakespanMin)
	require.Empty(t, res.RouteDetails[1])
}

func TestOptimizeMakespanMatchesVehicleStats(t *testing.T) {
	home := pt(52.50, 13.40)
	vehicles := []model.Vehicle{
		{ID: 1, Home: home, Capacity: 100},
		{ID: 2, Home: home, Capacity: 100},
	}
	orders := make([]model.Order, 0, 6)
	for i := 1; i <= 6; i++ {
		orders = append(orders, model.Order{
			ID:       i,
			Pickup:   pt(52.50+float64(i)*0.005, 13.40),
			Delivery: pt(52.50+float64(i)*0.005, 13.45),
			Weight:   10,
		})
	}
	res, err := testEngine().Optimize(context.Background(), vehicles, orders)
	require.NoError(t, err)

	max := 0.0
	for vid, vs := range res.Stats.Vehicles {
		if len(res.Assignments[vid]) > 0 && vs.Route.TotalMin > max {
			max = vs.Route.TotalMin
		}
	}
	require.InDelta(t, max, res.Stats.MakespanMin, 1e-9)
	require.False(t, math.IsNaN(res.Stats.MakespanMin))
}

func TestGreedyTieBreaksTowardSmallerVehicleTime(t *testing.T) {
	// two identical vehicles: the first order can go to either with the
	// same makespan; the tie-break keeps the choice deterministic
	home := pt(52.50, 13.40)
	vehicles := []model.Vehicle{
		{ID: 1, Home: home, Capacity: 100},
		{ID: 2, Home: home, Capacity: 100},
	}
	orders := []model.Order{
		{ID: 1, Pickup: pt(52.51, 13.41), Delivery: pt(52.52, 13.42), Weight: 10},
	}
	for i := 0; i < 5; i++ {
		res := solveGreedy(vehicles, orders, DefaultParams(), zap.NewNop())
		require.Equal(t, []int{1}, res.Assignments[1], "tie must resolve to the first vehicle, run %d", i)
		require.Empty(t, res.Assignments[2])
	}
}

func TestSolveImplementsSolver(t *testing.T) {
	var s Solver = testEngine()
	require.Equal(t, "engine", s.Name())
	res, err := s.Solve(context.Background(),
		[]model.Vehicle{{ID: 1, Home: pt(52.5, 13.4), Capacity: 10}},
		[]model.Order{{ID: 1, Pickup: pt(52.51, 13.41), Delivery: pt(52.52, 13.42), Weight: 5}})
	require.NoError(t, err)
	require.Equal(t, []int{1}, res.Assignments[1])
	require.Len(t, res.RouteDetails[1], 2)
}
