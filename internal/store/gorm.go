package store

import (
	"time"

	"gorm.io/gorm"

	"practice-booking-server/internal/models"
	"practice-booking-server/internal/scheduling"
)

// GormStore implements scheduling.Store over the MySQL database.
type GormStore struct {
	db *gorm.DB
}

// New creates a GormStore.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetAppointment(id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.Preload("Patient").Preload("AppointmentType").
		First(&appt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) GetAppointmentType(id string) (*models.AppointmentType, error) {
	var apptType models.AppointmentType
	if err := s.db.First(&apptType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &apptType, nil
}

func (s *GormStore) ActiveWindows(day models.Weekday) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := s.db.Where("day_of_week = ? AND is_active = ?", day, true).
		Order("start_time asc").Find(&windows).Error
	return windows, err
}

// OccupiedIntervals gathers every interval holding a slot on the date:
// appointments with assigned times in the given statuses plus unexpired
// pending proposals.
func (s *GormStore) OccupiedIntervals(date time.Time, excludeAppointmentID string, statuses []models.AppointmentStatus) ([]scheduling.Interval, error) {
	day := date.Format("2006-01-02")

	apptQuery := s.db.Model(&models.Appointment{}).
		Where("date = ? AND start_time IS NOT NULL AND status IN ?", day, statuses)
	if excludeAppointmentID != "" {
		apptQuery = apptQuery.Where("id <> ?", excludeAppointmentID)
	}
	var appts []models.Appointment
	if err := apptQuery.Find(&appts).Error; err != nil {
		return nil, err
	}

	propQuery := s.db.Model(&models.AppointmentProposal{}).
		Where("proposed_date = ? AND status = ? AND expires_at > ?", day, models.ProposalPending, time.Now())
	if excludeAppointmentID != "" {
		propQuery = propQuery.Where("appointment_id <> ?", excludeAppointmentID)
	}
	var proposals []models.AppointmentProposal
	if err := propQuery.Find(&proposals).Error; err != nil {
		return nil, err
	}

	intervals := make([]scheduling.Interval, 0, len(appts)+len(proposals))
	for _, a := range appts {
		intervals = append(intervals, scheduling.Interval{
			AppointmentID: a.ID,
			Start:         *a.StartTime,
			End:           *a.EndTime,
		})
	}
	for _, p := range proposals {
		intervals = append(intervals, scheduling.Interval{
			AppointmentID: p.AppointmentID,
			Start:         p.ProposedStart,
			End:           p.ProposedEnd,
			Tentative:     true,
		})
	}
	return intervals, nil
}

func (s *GormStore) GetProposalByToken(token string) (*models.AppointmentProposal, error) {
	var proposal models.AppointmentProposal
	if err := s.db.Preload("Appointment.Patient").Preload("Appointment.AppointmentType").
		First(&proposal, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *GormStore) StalePendingProposals(cutoff time.Time) ([]models.AppointmentProposal, error) {
	var proposals []models.AppointmentProposal
	err := s.db.Preload("Appointment.Patient").
		Where("status = ? AND created_at < ?", models.ProposalPending, cutoff).
		Order("created_at asc").Find(&proposals).Error
	return proposals, err
}

func (s *GormStore) CreateAppointment(a *models.Appointment) error {
	return s.db.Create(a).Error
}

func (s *GormStore) SaveAppointment(a *models.Appointment) error {
	return s.db.Save(a).Error
}

func (s *GormStore) CreateProposal(p *models.AppointmentProposal) error {
	return s.db.Create(p).Error
}

func (s *GormStore) SaveProposal(p *models.AppointmentProposal) error {
	return s.db.Save(p).Error
}

func (s *GormStore) SupersedePendingProposals(appointmentID string) (int64, error) {
	res := s.db.Model(&models.AppointmentProposal{}).
		Where("appointment_id = ? AND status = ?", appointmentID, models.ProposalPending).
		Update("status", models.ProposalSuperseded)
	return res.RowsAffected, res.Error
}

// InTransaction runs fn against a store bound to one database transaction,
// so a multi-row state transition commits or rolls back as a unit.
func (s *GormStore) InTransaction(fn func(scheduling.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
