package engine

import (
	"fleetopt/internal/geo"
	"fleetopt/internal/model"
)

// Params holds the time constants used when scoring a route. Historically
// call sites disagreed on these (10 vs 6 minute dwell, 30 vs 40 km/h); the
// defaults are the canonical set used everywhere in this engine.
type Params struct {
	DwellMin float64 // fixed per-stop loading/unloading time, minutes
	SpeedKmh float64 // assumed average travel speed
}

// DefaultParams returns the canonical constants: 10 min dwell, 30 km/h.
func DefaultParams() Params {
	return Params{DwellMin: 10, SpeedKmh: 30}
}

// ComputeStats walks a stop sequence starting and ending at the vehicle's
// home position and aggregates distance, dwell and travel time. The
// function is pure: identical inputs yield identical statistics.
func ComputeStats(v model.Vehicle, stops []model.Stop, p Params) model.RouteStats {
	dist := 0.0
	cur := v.Home
	for _, s := range stops {
		dist += geo.Haversine(cur, s.Point)
		cur = s.Point
	}
	dist += geo.Haversine(cur, v.Home)

	waiting := float64(len(stops)) * p.DwellMin
	travel := dist / p.SpeedKmh * 60
	return model.RouteStats{
		DistanceKm: dist,
		Stops:      len(stops),
		WaitingMin: waiting,
		TravelMin:  travel,
		TotalMin:   waiting + travel,
	}
}
