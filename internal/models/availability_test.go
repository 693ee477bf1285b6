package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	minutes, err = ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	for _, bad := range []string{"9:30:00", "24:00", "12:60", "noon", ""} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	assert.Equal(t, "09:30", FormatClock(570))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "23:45", FormatClock(23*60+45))
}

func TestWeekdayOf(t *testing.T) {
	// 2025-03-10 is a Monday.
	assert.Equal(t, Monday, WeekdayOf(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)))
}

func TestAvailabilityWindowValidate(t *testing.T) {
	valid := AvailabilityWindow{DayOfWeek: Monday, StartTime: "08:00", EndTime: "12:00"}
	assert.NoError(t, valid.Validate())

	cases := []AvailabilityWindow{
		{DayOfWeek: "FUNDAY", StartTime: "08:00", EndTime: "12:00"},
		{DayOfWeek: Monday, StartTime: "12:00", EndTime: "08:00"},
		{DayOfWeek: Monday, StartTime: "08:00", EndTime: "08:00"},
		{DayOfWeek: Monday, StartTime: "eight", EndTime: "12:00"},
	}
	for _, w := range cases {
		assert.Error(t, w.Validate(), "window %+v should be invalid", w)
	}
}

func TestAppointmentValidatePreferences(t *testing.T) {
	ok := Appointment{
		PreferredDays:  []Weekday{Monday, Friday},
		PreferredTimes: []TimeOfDay{Morning, Evening},
	}
	assert.NoError(t, ok.ValidatePreferences())

	badDay := Appointment{PreferredDays: []Weekday{"FUNDAY"}}
	assert.Error(t, badDay.ValidatePreferences())

	badTime := Appointment{PreferredTimes: []TimeOfDay{"NIGHT"}}
	assert.Error(t, badTime.ValidatePreferences())
}
