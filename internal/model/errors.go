package model

import (
	"errors"
	"fmt"
)

// ErrSlotTaken is returned by the booking commit protocol when any unit of
// the requested span is no longer available. It is never retried by the
// engine: the caller must re-fetch availability and reselect.
var ErrSlotTaken = errors.New("slot taken")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError marks malformed input rejected before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError marks a state transition the booking lifecycle forbids,
// such as cancelling a completed session.
type InvalidStateError struct {
	Status BookingStatus
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s booking in status %q", e.Op, e.Status)
}
