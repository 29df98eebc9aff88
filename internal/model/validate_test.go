package model

import (
	"errors"
	"testing"
)

func TestValidateFleetAcceptsWellFormedInput(t *testing.T) {
	vehicles := []Vehicle{
		{ID: 1, Home: Point{Lat: 52.52, Lng: 13.405}, Capacity: 100},
		{ID: 2, Home: Point{Lat: 52.52, Lng: 13.405}, Capacity: 80},
	}
	orders := []Order{
		{ID: 1, Pickup: Point{Lat: 52.5, Lng: 13.4}, Delivery: Point{Lat: 52.6, Lng: 13.5}, Weight: 10},
	}
	if err := ValidateFleet(vehicles, orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFleetRejections(t *testing.T) {
	good := Vehicle{ID: 1, Capacity: 50}
	cases := []struct {
		name     string
		vehicles []Vehicle
		orders   []Order
	}{
		{"no vehicles", nil, nil},
		{"zero vehicle id", []Vehicle{{ID: 0, Capacity: 10}}, nil},
		{"duplicate vehicle id", []Vehicle{good, good}, nil},
		{"non-positive capacity", []Vehicle{{ID: 1, Capacity: 0}}, nil},
		{"zero order id", []Vehicle{good}, []Order{{ID: 0, Weight: 1}}},
		{"duplicate order id", []Vehicle{good}, []Order{{ID: 7, Weight: 1}, {ID: 7, Weight: 2}}},
		{"non-positive weight", []Vehicle{good}, []Order{{ID: 3, Weight: -1}}},
	}
	for _, tc := range cases {
		err := ValidateFleet(tc.vehicles, tc.orders)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: error %v should wrap ErrValidation", tc.name, err)
		}
	}
}

func TestPointValid(t *testing.T) {
	if !(Point{Lat: 52.52, Lng: 13.405}).Valid() {
		t.Fatal("valid point rejected")
	}
	bad := []Point{
		{Lat: 91, Lng: 0},
		{Lat: 0, Lng: -181},
	}
	for _, p := range bad {
		if p.Valid() {
			t.Fatalf("point %+v should be invalid", p)
		}
	}
}
