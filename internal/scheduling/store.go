package scheduling

import (
	"time"

	"practice-booking-server/internal/models"
)

// Store is the persistence collaborator consumed by the scheduling core.
// internal/store implements it over GORM; tests use an in-memory fake.
type Store interface {
	GetUser(id string) (*models.User, error)
	GetAppointment(id string) (*models.Appointment, error)
	GetAppointmentType(id string) (*models.AppointmentType, error)

	// ActiveWindows returns the active weekly template entries for one day.
	ActiveWindows(day models.Weekday) ([]models.AvailabilityWindow, error)

	// OccupiedIntervals returns every interval holding a slot on the given
	// date: appointments with an assigned time whose status is in statuses,
	// plus unexpired pending proposals. excludeAppointmentID is skipped in
	// both sets so an appointment never conflicts with itself.
	OccupiedIntervals(date time.Time, excludeAppointmentID string, statuses []models.AppointmentStatus) ([]Interval, error)

	GetProposalByToken(token string) (*models.AppointmentProposal, error)

	// StalePendingProposals returns pending proposals created before cutoff,
	// with their appointment and patient preloaded.
	StalePendingProposals(cutoff time.Time) ([]models.AppointmentProposal, error)

	CreateAppointment(a *models.Appointment) error
	SaveAppointment(a *models.Appointment) error
	CreateProposal(p *models.AppointmentProposal) error
	SaveProposal(p *models.AppointmentProposal) error

	// SupersedePendingProposals marks every PENDING proposal of the
	// appointment SUPERSEDED and reports how many rows changed.
	SupersedePendingProposals(appointmentID string) (int64, error)

	// InTransaction runs fn against a transactional view of the store.
	// Every multi-row state transition goes through this.
	InTransaction(fn func(Store) error) error
}
