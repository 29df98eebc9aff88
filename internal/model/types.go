package model

import "math"

// Core domain types for one optimization batch. Everything here is created
// fresh per call and discarded once the caller has extracted the result.

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point carries usable coordinates.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Vehicle is an immutable input to the engine. The engine never mutates it.
type Vehicle struct {
	ID       int     `json:"id"`
	Home     Point   `json:"home"`
	Capacity float64 `json:"capacity"`
}

// Order is a pickup/delivery pair with a weight. Immutable input.
type Order struct {
	ID       int     `json:"id"`
	Pickup   Point   `json:"pickup"`
	Delivery Point   `json:"delivery"`
	Weight   float64 `json:"weight"`
}

// StopType distinguishes the two stop events of an order.
type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// Stop is a single pickup or delivery event within a vehicle's route.
// A pickup stop for an order always precedes its delivery stop.
type Stop struct {
	Type    StopType `json:"type"`
	OrderID int      `json:"orderId"`
	Point   Point    `json:"point"`
	Weight  float64  `json:"weight"`
}

// RouteStats aggregates one vehicle's route: distance in km, stop count,
// waiting (dwell) and travel time in minutes. TotalMin is the vehicle's
// contribution to the batch makespan.
type RouteStats struct {
	DistanceKm float64 `json:"distanceKm"`
	Stops      int     `json:"stops"`
	WaitingMin float64 `json:"waitingMin"`
	TravelMin  float64 `json:"travelMin"`
	TotalMin   float64 `json:"totalMin"`
}
