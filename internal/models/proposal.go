package models

import "time"

// ProposalStatus represents the status of an appointment proposal
type ProposalStatus string

const (
	ProposalPending    ProposalStatus = "PENDING"
	ProposalAccepted   ProposalStatus = "ACCEPTED"
	ProposalRejected   ProposalStatus = "REJECTED"
	ProposalSuperseded ProposalStatus = "SUPERSEDED"
)

// AppointmentProposal is a staff-initiated offer of a concrete date and time,
// sent to the patient as a token-bearing link. The token is the sole
// credential for the public response endpoint and may be consumed once.
// At most one proposal per appointment is PENDING at any time; sending a new
// proposal marks the prior PENDING one SUPERSEDED.
type AppointmentProposal struct {
	BaseModel
	AppointmentID   string         `gorm:"size:36;index;not null" json:"appointmentId"`
	ProposedDate    time.Time      `gorm:"type:date;not null" json:"proposedDate"`
	ProposedStart   time.Time      `gorm:"not null" json:"proposedStart"`
	ProposedEnd     time.Time      `gorm:"not null" json:"proposedEnd"`
	Token           string         `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt       time.Time      `gorm:"not null" json:"expiresAt"`
	Status          ProposalStatus `gorm:"size:20;default:'PENDING';index" json:"status"`
	PatientResponse string         `gorm:"size:20" json:"patientResponse,omitempty"`
	RejectionReason string         `gorm:"size:500" json:"rejectionReason,omitempty"`
	ReminderSentAt  *time.Time     `json:"reminderSentAt,omitempty"`
	ReminderCount   int            `gorm:"default:0" json:"reminderCount"`

	// Relations
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}

// IsExpired reports whether the token lifetime has lapsed at the given time.
func (p *AppointmentProposal) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
