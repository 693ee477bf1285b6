package scheduling

import (
	"time"

	"practice-booking-server/internal/models"
)

// OccupyingStatuses is the canonical set of appointment statuses that hold a
// slot: everything except CANCELLED. Appointments without an assigned time
// (the usual case for PENDING and PROPOSAL_SENT) cannot overlap anything;
// the tentative intervals of pending proposals are counted separately by the
// store. Every call site uses this one predicate.
var OccupyingStatuses = []models.AppointmentStatus{
	models.StatusPending,
	models.StatusProposalSent,
	models.StatusConfirmed,
	models.StatusCompleted,
}

// CheckConflict decides whether the candidate interval [start, end) may be
// booked on the given date. An occupied interval blocks the candidate when
// they overlap after the occupied end is extended by the booking buffer:
//
//	candidateStart < occupiedEnd+buffer && candidateEnd > occupiedStart
//
// The candidate's own end is not buffer-extended, so an appointment ending
// at T blocks a candidate starting at T but permits one at T+buffer.
// excludeAppointmentID removes the appointment being (re)scheduled from the
// comparison set.
func (s *Service) CheckConflict(date, start, end time.Time, excludeAppointmentID string, statuses []models.AppointmentStatus) (bool, []Interval, error) {
	occupied, err := s.store.OccupiedIntervals(dateOnly(date), excludeAppointmentID, statuses)
	if err != nil {
		return false, nil, err
	}

	var conflicts []Interval
	for _, iv := range occupied {
		if s.overlaps(start, end, iv) {
			conflicts = append(conflicts, iv)
		}
	}
	return len(conflicts) > 0, conflicts, nil
}

func (s *Service) overlaps(start, end time.Time, iv Interval) bool {
	buffered := iv.End.Add(time.Duration(s.cfg.BufferMinutes) * time.Minute)
	return start.Before(buffered) && end.After(iv.Start)
}

func (s *Service) overlapsAny(start, end time.Time, occupied []Interval) bool {
	for _, iv := range occupied {
		if s.overlaps(start, end, iv) {
			return true
		}
	}
	return false
}
