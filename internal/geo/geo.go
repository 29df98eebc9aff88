// Package geo provides the great-circle and path-simplification primitives
// shared by route construction and the route provider client.
package geo

import (
	"math"

	"fleetopt/internal/model"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0

	// DefaultToleranceDeg is the Douglas-Peucker tolerance, roughly 11 m.
	DefaultToleranceDeg = 0.0001

	// SimplifyThreshold is the path length above which callers simplify.
	// Shorter paths keep full detail.
	SimplifyThreshold = 50
)

// Haversine returns the great-circle distance between two points in km.
// Invalid coordinates yield 0 rather than an error; callers that care log
// the anomaly at their own level.
func Haversine(a, b model.Point) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// PathDistance sums the great-circle distance over consecutive points, in km.
func PathDistance(points []model.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += Haversine(points[i], points[i+1])
	}
	return total
}

// Simplify reduces a dense path with the recursive Douglas-Peucker
// algorithm. Paths of two or fewer points are returned unchanged. The
// tolerance is in degrees; pass DefaultToleranceDeg unless the caller has a
// reason to keep more or less detail.
func Simplify(points []model.Point, tolerance float64) []model.Point {
	if len(points) <= 2 {
		return points
	}
	first, last := points[0], points[len(points)-1]
	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance {
		return []model.Point{first, last}
	}
	left := Simplify(points[:maxIdx+1], tolerance)
	right := Simplify(points[maxIdx:], tolerance)
	// concatenate, dropping the duplicated junction point
	out := make([]model.Point, 0, len(left)+len(right)-1)
	out = append(out, left...)
	out = append(out, right[1:]...)
	return out
}

// perpendicularDistance measures how far p sits from the line a-b, in the
// same degree units as the simplification tolerance.
func perpendicularDistance(p, a, b model.Point) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	if dx == 0 && dy == 0 {
		return math.Hypot(p.Lng-a.Lng, p.Lat-a.Lat)
	}
	// area of the triangle over the base length
	num := math.Abs(dy*p.Lng - dx*p.Lat + b.Lng*a.Lat - b.Lat*a.Lng)
	return num / math.Hypot(dx, dy)
}
