package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the token-authenticated proposal response flow.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyResponded = errors.New("proposal has already been responded to")
	ErrNotPending       = errors.New("proposal is no longer open")
	ErrTokenExpired     = errors.New("proposal token has expired")
)

// ValidationError reports a missing or malformed field at the service boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StateError reports an operation attempted against an appointment whose
// current status does not permit it. The appointment is left unchanged.
type StateError struct {
	Action string
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s an appointment in status %s", e.Action, e.Status)
}

// ConflictError reports that a requested interval overlaps at least one
// occupied slot. The caller must reject the booking, never adjust the time.
type ConflictError struct {
	Conflicts []Interval
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		c := e.Conflicts[0]
		return fmt.Sprintf("requested slot overlaps an existing booking (%s - %s)",
			c.Start.Format("15:04"), c.End.Format("15:04"))
	}
	return fmt.Sprintf("requested slot overlaps %d existing bookings", len(e.Conflicts))
}

// Interval is one occupied stretch of a calendar date: either a booked
// appointment or the tentative slot held by a pending proposal.
type Interval struct {
	AppointmentID string
	Start         time.Time
	End           time.Time
	Tentative     bool // true when held by a pending proposal, not a booking
}
