package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-booking-server/internal/models"
)

var (
	// Monday noon, with the following Monday as the usual booking target.
	clockNow    = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	bookingDate = time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)
)

func window(day models.Weekday, start, end string) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
}

func slotTimes(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time
	}
	return out
}

func TestExpandSlotsMorningWindow(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	st.windows = []models.AvailabilityWindow{window(models.Monday, "08:00", "10:00")}

	slots, err := svc.ExpandSlots(bookingDate, apptType.ID)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"08:00", "08:15", "08:30", "08:45", "09:00", "09:15", "09:30"},
		slotTimes(slots))
	for _, s := range slots {
		assert.True(t, s.Available, "slot %s should be free on an empty day", s.Time)
	}
}

func TestExpandSlotsVisitMustFitInsideWindow(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 45)
	st.windows = []models.AvailabilityWindow{window(models.Monday, "08:00", "09:00")}

	slots, err := svc.ExpandSlots(bookingDate, apptType.ID)
	require.NoError(t, err)

	// 08:30 would run until 09:15, past the window end.
	assert.Equal(t, []string{"08:00", "08:15"}, slotTimes(slots))
}

func TestExpandSlotsOverlappingWindowsDedupe(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	st.windows = []models.AvailabilityWindow{
		window(models.Monday, "09:00", "11:00"),
		window(models.Monday, "08:00", "10:00"),
	}

	slots, err := svc.ExpandSlots(bookingDate, apptType.ID)
	require.NoError(t, err)

	times := slotTimes(slots)
	assert.Equal(t, "08:00", times[0])
	assert.Equal(t, "10:30", times[len(times)-1])
	assert.Len(t, times, 11)
	seen := make(map[string]bool)
	for i, v := range times {
		assert.False(t, seen[v], "duplicate slot %s", v)
		seen[v] = true
		if i > 0 {
			assert.Less(t, times[i-1], v, "slots must be sorted")
		}
	}
}

func TestExpandSlotsPastDateIsEmpty(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	st.windows = []models.AvailabilityWindow{window(models.Monday, "08:00", "10:00")}

	slots, err := svc.ExpandSlots(clockNow.AddDate(0, 0, -7), apptType.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestExpandSlotsNoWindowsForDay(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	st.windows = []models.AvailabilityWindow{window(models.Tuesday, "08:00", "10:00")}

	slots, err := svc.ExpandSlots(bookingDate, apptType.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestExpandSlotsInactiveWindowIgnored(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	w := window(models.Monday, "08:00", "10:00")
	w.IsActive = false
	st.windows = []models.AvailabilityWindow{w}

	slots, err := svc.ExpandSlots(bookingDate, apptType.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestExpandSlotsTodayMarksBegunSlotsUnavailable(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	st.windows = []models.AvailabilityWindow{window(models.Monday, "11:00", "14:00")}

	// clockNow is Monday 12:00, so everything before noon has begun.
	slots, err := svc.ExpandSlots(clockNow, apptType.ID)
	require.NoError(t, err)

	byTime := make(map[string]bool)
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}
	assert.False(t, byTime["11:00"])
	assert.False(t, byTime["11:45"])
	assert.True(t, byTime["12:00"])
	assert.True(t, byTime["13:30"])
}

func TestExpandSlotsBookedIntervalMarksUnavailable(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	apptType := seedType(st, 30)
	patient := seedPatient(st)
	st.windows = []models.AvailabilityWindow{window(models.Monday, "08:00", "10:00")}

	booked := seedRequest(st, patient, apptType)
	day := dateOnly(bookingDate)
	start := at(bookingDate, "08:30")
	end := at(bookingDate, "09:00")
	booked.Date = &day
	booked.StartTime = &start
	booked.EndTime = &end
	booked.Status = models.StatusConfirmed

	slots, err := svc.ExpandSlots(bookingDate, apptType.ID)
	require.NoError(t, err)

	byTime := make(map[string]bool)
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}
	// The buffered block runs from 08:30 until 09:05, so any visit touching
	// it stays unavailable. A visit ending exactly at 08:30 is fine.
	assert.True(t, byTime["08:00"])
	assert.False(t, byTime["08:15"])
	assert.False(t, byTime["08:30"])
	assert.False(t, byTime["08:45"])
	assert.False(t, byTime["09:00"])
	assert.True(t, byTime["09:15"])
}

func TestExpandSlotsUnknownTypeFails(t *testing.T) {
	svc, _, _ := newTestService(clockNow)

	_, err := svc.ExpandSlots(bookingDate, "nope")
	assert.True(t, IsNotFound(err))
}
