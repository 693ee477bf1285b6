package models

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending      AppointmentStatus = "PENDING"
	StatusProposalSent AppointmentStatus = "PROPOSAL_SENT"
	StatusConfirmed    AppointmentStatus = "CONFIRMED"
	StatusCompleted    AppointmentStatus = "COMPLETED"
	StatusCancelled    AppointmentStatus = "CANCELLED"
)

// Urgency is a patient-declared priority tag used for staff triage
// ordering only; it never influences automated scheduling.
type Urgency string

const (
	UrgencyUrgent   Urgency = "URGENT"
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyFlexible Urgency = "FLEXIBLE"
)

// TimeOfDay is a coarse patient preference for when a visit should happen.
type TimeOfDay string

const (
	Morning   TimeOfDay = "MORNING"
	Afternoon TimeOfDay = "AFTERNOON"
	Evening   TimeOfDay = "EVENING"
)

// Appointment represents one visit request and its negotiated slot.
//
// A patient creates it PENDING with only preferences; date and times stay
// null until staff either confirm a slot directly or the patient accepts a
// proposal. Status and times are mutated exclusively by staff operations,
// except for the token-authenticated proposal response.
type Appointment struct {
	BaseModel
	PatientID         string            `gorm:"size:36;index;not null" json:"patientId"`
	AppointmentTypeID string            `gorm:"size:36;index;not null" json:"appointmentTypeId"`
	Date              *time.Time        `gorm:"type:date;uniqueIndex:uniq_booked_slot" json:"date"`
	StartTime         *time.Time        `gorm:"uniqueIndex:uniq_booked_slot" json:"startTime"`
	EndTime           *time.Time        `json:"endTime"`
	Status            AppointmentStatus `gorm:"size:20;default:'PENDING';index" json:"status"`
	PreferredDays     []Weekday         `gorm:"serializer:json" json:"preferredDays"`
	PreferredTimes    []TimeOfDay       `gorm:"serializer:json" json:"preferredTimes"`
	Urgency           Urgency           `gorm:"size:10;default:'NORMAL'" json:"urgency"`
	SpecialRemarks    string            `gorm:"type:text" json:"specialRemarks"`

	// Relations
	Patient         User                  `gorm:"foreignKey:PatientID" json:"-"`
	AppointmentType AppointmentType       `gorm:"foreignKey:AppointmentTypeID" json:"-"`
	Proposals       []AppointmentProposal `gorm:"foreignKey:AppointmentID" json:"-"`
}

// IsTerminal reports whether no further transitions are allowed.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// HasAssignedSlot reports whether a concrete interval is booked.
func (a *Appointment) HasAssignedSlot() bool {
	return a.StartTime != nil && a.EndTime != nil
}

// ValidatePreferences checks the patient preference tags at the boundary.
func (a *Appointment) ValidatePreferences() error {
	for _, d := range a.PreferredDays {
		if !IsValidWeekday(d) {
			return fmt.Errorf("unknown preferred day %q", d)
		}
	}
	for _, t := range a.PreferredTimes {
		switch t {
		case Morning, Afternoon, Evening:
		default:
			return fmt.Errorf("unknown preferred time of day %q", t)
		}
	}
	switch a.Urgency {
	case UrgencyUrgent, UrgencyNormal, UrgencyFlexible, "":
	default:
		return fmt.Errorf("unknown urgency %q", a.Urgency)
	}
	return nil
}
