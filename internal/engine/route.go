package engine

import (
	"go.uber.org/zap"

	"fleetopt/internal/model"
)

// BuildRoute produces a feasible stop sequence for one vehicle's assigned
// orders: greedily pick up any order whose weight still fits, otherwise
// deliver the earliest onboard order. Each order contributes exactly one
// pickup and one delivery, so the loop terminates within 2*len(orders)
// steps. Onboard weight never exceeds the vehicle capacity at any prefix,
// and every delivery strictly follows its pickup.
//
// A vehicle with no orders yields an empty sequence (its route is just
// home -> home). Missing geographic data on the vehicle or an order is
// logged and yields a degenerate empty route rather than a panic.
func BuildRoute(v model.Vehicle, orders []model.Order, log *zap.Logger) []model.Stop {
	if len(orders) == 0 {
		return []model.Stop{}
	}
	if !v.Home.Valid() {
		log.Warn("vehicle home position invalid, returning degenerate route",
			zap.Int("vehicle", v.ID))
		return []model.Stop{}
	}
	for _, o := range orders {
		if !o.Pickup.Valid() || !o.Delivery.Valid() {
			log.Warn("order position invalid, returning degenerate route",
				zap.Int("vehicle", v.ID), zap.Int("order", o.ID))
			return []model.Stop{}
		}
	}

	pending := append([]model.Order(nil), orders...)
	var onboard []model.Order // FIFO: earliest pickup delivered first
	load := 0.0
	stops := make([]model.Stop, 0, 2*len(orders))

	for len(pending) > 0 || len(onboard) > 0 {
		pickedIdx := -1
		for i, o := range pending {
			if load+o.Weight <= v.Capacity {
				pickedIdx = i
				break
			}
		}
		if pickedIdx >= 0 {
			o := pending[pickedIdx]
			pending = append(pending[:pickedIdx], pending[pickedIdx+1:]...)
			onboard = append(onboard, o)
			load += o.Weight
			stops = append(stops, model.Stop{Type: model.StopPickup, OrderID: o.ID, Point: o.Pickup, Weight: o.Weight})
			continue
		}
		if len(onboard) == 0 {
			// an order heavier than the vehicle itself; the assignment
			// layer filters these, this guard only prevents a livelock
			log.Warn("orders exceed vehicle capacity outright, truncating route",
				zap.Int("vehicle", v.ID), zap.Int("skipped", len(pending)))
			break
		}
		o := onboard[0]
		onboard = onboard[1:]
		load -= o.Weight
		stops = append(stops, model.Stop{Type: model.StopDelivery, OrderID: o.ID, Point: o.Delivery, Weight: o.Weight})
	}
	return stops
}
