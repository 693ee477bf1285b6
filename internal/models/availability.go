package models

import (
	"fmt"
	"time"
)

// Weekday is the day-of-week key of a weekly availability template.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayFromTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf maps a calendar date onto the template key for that day.
func WeekdayOf(t time.Time) Weekday {
	return weekdayFromTime[t.Weekday()]
}

// IsValidWeekday reports whether s is one of the seven weekday values.
func IsValidWeekday(s Weekday) bool {
	switch s {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// AvailabilityWindow is one recurring entry of the weekly template: the
// practice accepts appointments on DayOfWeek between StartTime and EndTime.
// Several windows per day are allowed and may overlap.
type AvailabilityWindow struct {
	BaseModel
	DayOfWeek Weekday `gorm:"size:10;index;not null" json:"dayOfWeek"`
	StartTime string  `gorm:"size:5;not null" json:"startTime"` // "HH:MM", 24h
	EndTime   string  `gorm:"size:5;not null" json:"endTime"`   // "HH:MM", 24h
	IsActive  bool    `gorm:"default:true" json:"isActive"`
}

// Validate checks the template invariants: known weekday, well-formed
// clock values, start strictly before end.
func (w *AvailabilityWindow) Validate() error {
	if !IsValidWeekday(w.DayOfWeek) {
		return fmt.Errorf("unknown day of week %q", w.DayOfWeek)
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start time %s must be before end time %s", w.StartTime, w.EndTime)
	}
	return nil
}

// ParseClock converts an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("clock value %q is not HH:MM: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
