package engine

import (
	"math"

	"go.uber.org/zap"

	"fleetopt/internal/model"
)

// solveExact enumerates every partition of the order list across the
// vehicles and keeps the one with the smallest makespan (maximum
// per-vehicle completion time over non-empty vehicles). Comparison is
// strict, so ties keep the first partition found in enumeration order.
// Partitions whose per-vehicle weight exceeds capacity are pruned before
// any route is built. Returns nil when no feasible partition exists; the
// caller falls back to the heuristic in that case.
//
// Complexity is O(k^n); the engine only calls this under the instance-size
// gate.
func solveExact(vehicles []model.Vehicle, orders []model.Order, p Params, log *zap.Logger) *Result {
	k := len(vehicles)
	it := newPartitionIter(len(orders), k)

	var bestAssign []int
	bestMakespan := math.MaxFloat64
	loads := make([]float64, k)

	for assign, ok := it.next(); ok; assign, ok = it.next() {
		for vi := range loads {
			loads[vi] = 0
		}
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
			stops := BuildRoute(v, list, log)
			st := ComputeStats(v, stops, p)
			if st.TotalMin > makespan {
				makespan = st.TotalMin
			}
		}
		if makespan < bestMakespan {
			bestMakespan = makespan
			bestAssign = append(bestAssign[:0], assign...)
		}
	}

	if bestAssign == nil && len(orders) > 0 {
		return nil
	}
	perVehicle := make([][]model.Order, k)
	for vi := range vehicles {
		perVehicle[vi] = ordersFor(bestAssign, orders, vi)
	}
	return buildResult(vehicles, perVehicle, nil, p, log)
}

// ordersFor collects the orders a partition vector assigns to vehicle vi,
// preserving input order.
func ordersFor(assign []int, orders []model.Order, vi int) []model.Order {
	var list []model.Order
	for oi, a := range assign {
		if a == vi {
			list = append(list, orders[oi])
		}
	}
	return list
}
