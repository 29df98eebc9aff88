package engine

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"fleetopt/internal/model"
)

// solveGreedy assigns orders one by one, heaviest first, to the vehicle
// whose tentative route yields the smallest resulting makespan. Handling
// heavy orders early avoids late infeasibility, the classic bin-packing
// trick. Orders no vehicle can take are reported as unassigned. Ties on
// makespan break toward the smallest resulting time for the candidate
// vehicle. O(n*k) route evaluations.
func solveGreedy(vehicles []model.Vehicle, orders []model.Order, p Params, log *zap.Logger) *Result {
	sorted := append([]model.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Weight > sorted[j].Weight })

	perVehicle := make([][]model.Order, len(vehicles))
	loads := make([]float64, len(vehicles))
	times := make([]float64, len(vehicles)) // last-known completion time
	var unassigned []model.Order

	for _, o := range sorted {
		bestVi := -1
		bestMakespan := math.MaxFloat64
		bestTime := math.MaxFloat64

		for vi, v := range vehicles {
			if loads[vi]+o.Weight > v.Capacity {
				continue
			}
			tentative := append(append([]model.Order(nil), perVehicle[vi]...), o)
			stops := BuildRoute(v, tentative, log)
			st := ComputeStats(v, stops, p)

			makespan := st.TotalMin
			for vj := range vehicles {
				if vj != vi && times[vj] > makespan {
					makespan = times[vj]
				}
			}
			if makespan < bestMakespan || (makespan == bestMakespan && st.TotalMin < bestTime) {
				bestMakespan = makespan
				bestTime = st.TotalMin
				bestVi = vi
			}
		}

		if bestVi < 0 {
			unassigned = append(unassigned, o)
			continue
		}
		perVehicle[bestVi] = append(perVehicle[bestVi], o)
		loads[bestVi] += o.Weight
		times[bestVi] = bestTime
	}

	if len(unassigned) > 0 {
		log.Info("orders left unassigned, fleet capacity exhausted",
			zap.Int("unassigned", len(unassigned)), zap.Int("total", len(orders)))
	}
	return buildResult(vehicles, perVehicle, unassigned, p, log)
}
