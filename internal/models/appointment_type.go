package models

import "time"

// AppointmentType describes a bookable visit kind. Its duration determines
// slot length and end-time computation. Types referenced by appointments are
// never deleted, only toggled inactive.
type AppointmentType struct {
	BaseModel
	Name            string `gorm:"size:100;not null" json:"name"`
	DurationMinutes int    `gorm:"not null" json:"durationMinutes"`
	IsActive        bool   `gorm:"default:true" json:"isActive"`
}

// Duration returns the visit length as a time.Duration.
func (t *AppointmentType) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}
