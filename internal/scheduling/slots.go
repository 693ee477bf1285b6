package scheduling

import (
	"fmt"
	"sort"
	"time"

	"practice-booking-server/internal/models"
)

// Slot is one candidate start time on a concrete date. Unavailable slots are
// kept in the result (available=false) so ordering and count stay stable.
type Slot struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

// ExpandSlots expands the weekly availability template into the ordered list
// of bookable start times for one calendar date and appointment type.
//
// Past dates yield an empty list. A date with no active windows yields an
// empty list, not an error. Slots already begun today and slots overlapping
// an occupied interval are marked unavailable rather than omitted.
func (s *Service) ExpandSlots(date time.Time, appointmentTypeID string) ([]Slot, error) {
	apptType, err := s.store.GetAppointmentType(appointmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("appointment type %s: %w", appointmentTypeID, ErrNotFound)
	}
	if apptType.DurationMinutes <= 0 {
		return nil, NewValidationError("appointmentTypeId", "appointment type has no duration")
	}

	now := s.now()
	day := dateOnly(date)
	today := dateOnly(now)
	if day.Before(today) {
		return []Slot{}, nil
	}

	windows, err := s.store.ActiveWindows(models.WeekdayOf(day))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	occupied, err := s.store.OccupiedIntervals(day, "", OccupyingStatuses)
	if err != nil {
		return nil, err
	}

	interval := s.cfg.SlotIntervalMinutes
	duration := apptType.DurationMinutes
	seen := make(map[int]bool)
	var starts []int

	for _, w := range windows {
		startMin, err := models.ParseClock(w.StartTime)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.ID, err)
		}
		endMin, err := models.ParseClock(w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.ID, err)
		}
		// Candidates step at the base granularity; the whole visit must fit
		// inside the window. Overlapping windows dedupe on the start minute.
		for m := startMin; m+duration <= endMin; m += interval {
			if seen[m] {
				continue
			}
			seen[m] = true
			starts = append(starts, m)
		}
	}
	sort.Ints(starts)

	slots := make([]Slot, 0, len(starts))
	for _, m := range starts {
		start := day.Add(time.Duration(m) * time.Minute)
		end := start.Add(apptType.Duration())

		available := true
		if day.Equal(today) && start.Before(now) {
			available = false
		} else if s.overlapsAny(start, end, occupied) {
			available = false
		}

		slots = append(slots, Slot{
			Time:      models.FormatClock(m),
			Start:     start,
			Available: available,
		})
	}
	return slots, nil
}
