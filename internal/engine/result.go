package engine

import (
	"sort"

	"go.uber.org/zap"

	"fleetopt/internal/model"
)

// Result is the engine's complete answer for one batch. External solvers
// produce the same shape, so callers can treat either source
// interchangeably.
type Result struct {
	BatchID      string               `json:"batchId"`
	Strategy     string               `json:"strategy"`
	Assignments  map[int][]int        `json:"assignments"`  // vehicle id -> ordered order ids
	RouteDetails map[int][]model.Stop `json:"routeDetails"` // vehicle id -> stop sequence
	Stats        Stats                `json:"stats"`
}

// VehicleStats is one vehicle's share of the result.
type VehicleStats struct {
	Load  float64          `json:"load"`
	Route model.RouteStats `json:"route"`
}

// Stats aggregates the batch. Assigned plus the unassigned list always
// covers the full input order set with no duplicates; infeasible orders
// are reported here, never silently dropped.
type Stats struct {
	Vehicles         map[int]VehicleStats `json:"vehicles"`
	MakespanMin      float64              `json:"makespanMin"`
	Assigned         int                  `json:"assigned"`
	Unassigned       int                  `json:"unassigned"`
	UnassignedOrders []int                `json:"unassignedOrders,omitempty"`
}

// buildResult assembles the shared result shape from per-vehicle order
// lists. perVehicle is indexed like vehicles.
func buildResult(vehicles []model.Vehicle, perVehicle [][]model.Order, unassigned []model.Order, p Params, log *zap.Logger) *Result {
	res := &Result{
		Assignments:  make(map[int][]int, len(vehicles)),
		RouteDetails: make(map[int][]model.Stop, len(vehicles)),
		Stats:        Stats{Vehicles: make(map[int]VehicleStats, len(vehicles))},
	}
	for vi, v := range vehicles {
		list := perVehicle[vi]
		ids := make([]int, 0, len(list))
		load := 0.0
		for _, o := range list {
			ids = append(ids, o.ID)
			load += o.Weight
		}
		stops := BuildRoute(v, list, log)
		st := ComputeStats(v, stops, p)

		res.Assignments[v.ID] = ids
		res.RouteDetails[v.ID] = stops
		res.Stats.Vehicles[v.ID] = VehicleStats{Load: load, Route: st}
		if len(list) > 0 && st.TotalMin > res.Stats.MakespanMin {
			res.Stats.MakespanMin = st.TotalMin
		}
		res.Stats.Assigned += len(list)
	}
	res.Stats.Unassigned = len(unassigned)
	for _, o := range unassigned {
		res.Stats.UnassignedOrders = append(res.Stats.UnassignedOrders, o.ID)
	}
	sort.Ints(res.Stats.UnassignedOrders)
	return res
}
