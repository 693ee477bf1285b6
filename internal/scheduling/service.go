package scheduling

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"practice-booking-server/internal/config"
	"practice-booking-server/internal/models"
)

// Service implements the scheduling core: availability expansion, conflict
// checking and the appointment/proposal state machine. Persistence and email
// are consumed through the Store and Mailer collaborators.
type Service struct {
	store  Store
	mailer Mailer
	cfg    config.SchedulingConfig
	appURL string
	log    *zap.Logger

	// now is swapped out in tests
	now func() time.Time
}

// New creates a scheduling service.
func New(store Store, mailer Mailer, cfg config.SchedulingConfig, appURL string, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		cfg:    cfg,
		appURL: appURL,
		log:    log,
		now:    time.Now,
	}
}

// RequestInput carries the patient preferences stated when a visit is
// requested. No date or time is fixed at this point.
type RequestInput struct {
	PreferredDays  []models.Weekday
	PreferredTimes []models.TimeOfDay
	Urgency        models.Urgency
	SpecialRemarks string
}

// CreateRequest records a new PENDING appointment holding only preferences
// and notifies both sides. Staff pick a concrete slot later.
func (s *Service) CreateRequest(patientID, appointmentTypeID string, input RequestInput) (*models.Appointment, error) {
	patient, err := s.store.GetUser(patientID)
	if err != nil {
		return nil, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
	}
	apptType, err := s.store.GetAppointmentType(appointmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("appointment type %s: %w", appointmentTypeID, ErrNotFound)
	}
	if !apptType.IsActive {
		return nil, NewValidationError("appointmentTypeId", "appointment type is no longer offered")
	}
	if patient.Email == "" {
		return nil, NewValidationError("email", "patient contact email is required")
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	appt := &models.Appointment{
		PatientID:         patient.ID,
		AppointmentTypeID: apptType.ID,
		Status:            models.StatusPending,
		PreferredDays:     input.PreferredDays,
		PreferredTimes:    input.PreferredTimes,
		Urgency:           urgency,
		SpecialRemarks:    input.SpecialRemarks,
	}
	if err := appt.ValidatePreferences(); err != nil {
		return nil, NewValidationError("preferences", err.Error())
	}
	if err := s.store.CreateAppointment(appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	data := MailData{
		PatientName:     patient.FullName(),
		PatientEmail:    patient.Email,
		AppointmentType: apptType.Name,
	}
	s.notify(MailRequestAck, data)
	s.notify(MailRequestNotice, data)

	return appt, nil
}

// CreateDirectBooking assigns a concrete slot to an appointment without the
// proposal round trip. The interval must be free; on conflict the
// appointment is left unchanged.
func (s *Service) CreateDirectBooking(appointmentID string, date time.Time, startClock string) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if appt.Status != models.StatusPending && appt.Status != models.StatusProposalSent {
		return nil, &StateError{Action: "book", Status: string(appt.Status)}
	}

	start, end, err := s.resolveInterval(date, startClock, &appt.AppointmentType)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFree(date, start, end, appt.ID); err != nil {
		return nil, err
	}

	day := dateOnly(date)
	err = s.store.InTransaction(func(tx Store) error {
		if _, err := tx.SupersedePendingProposals(appt.ID); err != nil {
			return err
		}
		appt.Date = &day
		appt.StartTime = &start
		appt.EndTime = &end
		appt.Status = models.StatusConfirmed
		return tx.SaveAppointment(appt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to book slot: %w", err)
	}

	s.notify(MailDirectConfirmed, MailData{
		PatientName:     appt.Patient.FullName(),
		PatientEmail:    appt.Patient.Email,
		AppointmentType: appt.AppointmentType.Name,
		Date:            day.Format("2006-01-02"),
		Start:           start.Format("15:04"),
		End:             end.Format("15:04"),
	})

	return appt, nil
}

// SendProposal offers the patient a concrete slot. Any prior pending
// proposal for the appointment is superseded so at most one stays open.
func (s *Service) SendProposal(appointmentID string, date time.Time, startClock string) (*models.AppointmentProposal, error) {
	appt, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if appt.Status != models.StatusPending && appt.Status != models.StatusProposalSent {
		return nil, &StateError{Action: "propose a time for", Status: string(appt.Status)}
	}

	start, end, err := s.resolveInterval(date, startClock, &appt.AppointmentType)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFree(date, start, end, appt.ID); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	proposal := &models.AppointmentProposal{
		AppointmentID: appt.ID,
		ProposedDate:  dateOnly(date),
		ProposedStart: start,
		ProposedEnd:   end,
		Token:         token,
		ExpiresAt:     s.now().Add(time.Duration(s.cfg.ProposalTokenTTLHours) * time.Hour),
		Status:        models.ProposalPending,
	}

	err = s.store.InTransaction(func(tx Store) error {
		superseded, err := tx.SupersedePendingProposals(appt.ID)
		if err != nil {
			return err
		}
		if superseded > 0 {
			s.log.Info("superseded prior pending proposal",
				zap.String("appointmentId", appt.ID),
				zap.Int64("count", superseded))
		}
		if err := tx.CreateProposal(proposal); err != nil {
			return err
		}
		appt.Status = models.StatusProposalSent
		return tx.SaveAppointment(appt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.notify(MailProposalSent, MailData{
		PatientName:     appt.Patient.FullName(),
		PatientEmail:    appt.Patient.Email,
		AppointmentType: appt.AppointmentType.Name,
		Date:            proposal.ProposedDate.Format("2006-01-02"),
		Start:           start.Format("15:04"),
		End:             end.Format("15:04"),
		ResponseURL:     fmt.Sprintf("%s/proposals/%s", s.appURL, proposal.Token),
	})

	return proposal, nil
}

// ResponseAction is the patient's answer to a proposal.
type ResponseAction string

const (
	ActionAccept ResponseAction = "accept"
	ActionReject ResponseAction = "reject"
)

// Outcome is the result of a proposal response: the resolved proposal and
// the appointment in its new state.
type Outcome struct {
	Proposal    *models.AppointmentProposal
	Appointment *models.Appointment
}

// RespondToProposal consumes a proposal token. Accepting locks the proposed
// slot onto the appointment; rejecting reverts it to PENDING so staff must
// propose again. A token is consumed exactly once.
func (s *Service) RespondToProposal(token string, action ResponseAction, rejectionReason string) (*Outcome, error) {
	proposal, err := s.store.GetProposalByToken(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if proposal.PatientResponse != "" {
		return nil, ErrAlreadyResponded
	}
	if proposal.Status != models.ProposalPending {
		return nil, ErrNotPending
	}
	if proposal.IsExpired(s.now()) {
		return nil, ErrTokenExpired
	}
	if action != ActionAccept && action != ActionReject {
		return nil, NewValidationError("action", "must be accept or reject")
	}

	appt := &proposal.Appointment

	err = s.store.InTransaction(func(tx Store) error {
		if action == ActionAccept {
			proposal.Status = models.ProposalAccepted
			proposal.PatientResponse = string(models.ProposalAccepted)
			day := dateOnly(proposal.ProposedDate)
			appt.Date = &day
			appt.StartTime = &proposal.ProposedStart
			appt.EndTime = &proposal.ProposedEnd
			appt.Status = models.StatusConfirmed
		} else {
			proposal.Status = models.ProposalRejected
			proposal.PatientResponse = string(models.ProposalRejected)
			proposal.RejectionReason = rejectionReason
			appt.Status = models.StatusPending
		}
		if err := tx.SaveProposal(proposal); err != nil {
			return err
		}
		return tx.SaveAppointment(appt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	data := MailData{
		PatientName:     appt.Patient.FullName(),
		PatientEmail:    appt.Patient.Email,
		AppointmentType: appt.AppointmentType.Name,
		Date:            proposal.ProposedDate.Format("2006-01-02"),
		Start:           proposal.ProposedStart.Format("15:04"),
		End:             proposal.ProposedEnd.Format("15:04"),
		RejectionReason: rejectionReason,
	}
	if action == ActionAccept {
		s.notify(MailProposalAccepted, data)
	} else {
		s.notify(MailProposalRejected, data)
	}

	return &Outcome{Proposal: proposal, Appointment: appt}, nil
}

// SuggestAlternative cancels the appointment and emails the patient a
// courtesy suggestion. This is a one-way notification, not a tracked
// proposal: the patient cannot accept it by link.
func (s *Service) SuggestAlternative(appointmentID, suggestion string) error {
	appt, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if appt.IsTerminal() {
		return &StateError{Action: "suggest an alternative for", Status: string(appt.Status)}
	}
	if suggestion == "" {
		return NewValidationError("suggestion", "alternative suggestion text is required")
	}

	err = s.store.InTransaction(func(tx Store) error {
		if _, err := tx.SupersedePendingProposals(appt.ID); err != nil {
			return err
		}
		appt.Status = models.StatusCancelled
		return tx.SaveAppointment(appt)
	})
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.notify(MailAlternativeSuggested, MailData{
		PatientName:     appt.Patient.FullName(),
		PatientEmail:    appt.Patient.Email,
		AppointmentType: appt.AppointmentType.Name,
		Suggestion:      suggestion,
	})

	return nil
}

// CancelAppointment marks a non-terminal appointment CANCELLED.
func (s *Service) CancelAppointment(appointmentID string) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if appt.IsTerminal() {
		return nil, &StateError{Action: "cancel", Status: string(appt.Status)}
	}
	err = s.store.InTransaction(func(tx Store) error {
		if _, err := tx.SupersedePendingProposals(appt.ID); err != nil {
			return err
		}
		appt.Status = models.StatusCancelled
		return tx.SaveAppointment(appt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return appt, nil
}

// CompleteAppointment marks a confirmed appointment COMPLETED after the visit.
func (s *Service) CompleteAppointment(appointmentID string) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if appt.Status != models.StatusConfirmed {
		return nil, &StateError{Action: "complete", Status: string(appt.Status)}
	}
	appt.Status = models.StatusCompleted
	if err := s.store.SaveAppointment(appt); err != nil {
		return nil, fmt.Errorf("failed to complete appointment: %w", err)
	}
	return appt, nil
}

// resolveInterval turns a calendar date, an "HH:MM" start and the
// appointment type duration into concrete start and end timestamps.
func (s *Service) resolveInterval(date time.Time, startClock string, apptType *models.AppointmentType) (time.Time, time.Time, error) {
	minutes, err := models.ParseClock(startClock)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("time", err.Error())
	}
	if apptType.DurationMinutes <= 0 {
		return time.Time{}, time.Time{}, NewValidationError("appointmentTypeId", "appointment type has no duration")
	}
	day := dateOnly(date)
	start := day.Add(time.Duration(minutes) * time.Minute)
	end := start.Add(apptType.Duration())
	if start.Before(s.now()) {
		return time.Time{}, time.Time{}, NewValidationError("time", "slot start is in the past")
	}
	return start, end, nil
}

// ensureFree runs the conflict checker and wraps hits in a ConflictError.
func (s *Service) ensureFree(date, start, end time.Time, excludeAppointmentID string) error {
	conflicted, conflicts, err := s.CheckConflict(date, start, end, excludeAppointmentID, OccupyingStatuses)
	if err != nil {
		return err
	}
	if conflicted {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

// notify dispatches an email and logs a delivery warning on failure. The
// already-committed transition is never rolled back for a failed send.
func (s *Service) notify(kind TemplateKind, data MailData) {
	if err := s.mailer.Send(kind, data); err != nil {
		s.log.Warn("email delivery failed",
			zap.String("template", string(kind)),
			zap.String("recipient", data.PatientEmail),
			zap.Error(err))
	}
}

// dateOnly truncates a timestamp to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsNotFound reports whether err stems from an unresolved id or token.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
