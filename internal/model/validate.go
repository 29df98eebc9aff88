package model

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed batch input. Callers can test for it with
// errors.Is and map it to their own boundary (e.g. a 400 response).
var ErrValidation = errors.New("invalid input")

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Field, e.Reason, ErrValidation)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsValidation reports whether err stems from malformed batch input.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// ValidateFleet rejects malformed vehicles/orders before optimization
// begins. Identifiers must be positive and unique within their list,
// capacities and weights strictly positive. Coordinates are deliberately
// not checked here; downstream construction degrades gracefully on bad
// geography instead of rejecting the whole batch.
func ValidateFleet(vehicles []Vehicle, orders []Order) error {
	if len(vehicles) == 0 {
		return &ValidationError{Field: "vehicles", Reason: "must not be empty"}
	}
	seenV := make(map[int]struct{}, len(vehicles))
	for i, v := range vehicles {
		if v.ID <= 0 {
			return &ValidationError{Field: fmt.Sprintf("vehicles[%d].id", i), Reason: "must be positive"}
		}
		if _, dup := seenV[v.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("vehicles[%d].id", i), Reason: fmt.Sprintf("duplicate id %d", v.ID)}
		}
		seenV[v.ID] = struct{}{}
		if v.Capacity <= 0 {
			return &ValidationError{Field: fmt.Sprintf("vehicles[%d].capacity", i), Reason: "must be positive"}
		}
	}
	seenO := make(map[int]struct{}, len(orders))
	for i, o := range orders {
		if o.ID <= 0 {
			return &ValidationError{Field: fmt.Sprintf("orders[%d].id", i), Reason: "must be positive"}
		}
		if _, dup := seenO[o.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("orders[%d].id", i), Reason: fmt.Sprintf("duplicate id %d", o.ID)}
		}
		seenO[o.ID] = struct{}{}
		if o.Weight <= 0 {
			return &ValidationError{Field: fmt.Sprintf("orders[%d].weight", i), Reason: "must be positive"}
		}
	}
	return nil
}
