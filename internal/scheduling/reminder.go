package scheduling

import (
	"fmt"

	"go.uber.org/zap"

	"practice-booking-server/internal/models"
)

// ReminderSummary reports the outcome of one reminder sweep.
type ReminderSummary struct {
	Count     int                    `json:"count"`
	ByUrgency map[models.Urgency]int `json:"byUrgency"`
}

// RunReminderSweep finds proposals that have been waiting on a patient
// response longer than thresholdDays, emails staff one digest and stamps
// each proposal. Neither proposal nor appointment status changes.
func (s *Service) RunReminderSweep(thresholdDays int) (*ReminderSummary, error) {
	if thresholdDays <= 0 {
		thresholdDays = s.cfg.ReminderThresholdDays
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -thresholdDays)

	stale, err := s.store.StalePendingProposals(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale proposals: %w", err)
	}

	summary := &ReminderSummary{ByUrgency: make(map[models.Urgency]int)}
	if len(stale) == 0 {
		return summary, nil
	}

	entries := make([]DigestEntry, 0, len(stale))
	for _, p := range stale {
		entries = append(entries, DigestEntry{
			PatientName:  p.Appointment.Patient.FullName(),
			Urgency:      p.Appointment.Urgency,
			ProposedDate: p.ProposedDate.Format("2006-01-02"),
			DaysPending:  int(now.Sub(p.CreatedAt).Hours() / 24),
		})
		summary.Count++
		summary.ByUrgency[p.Appointment.Urgency]++
	}

	s.notify(MailReminderDigest, MailData{Digest: entries})

	err = s.store.InTransaction(func(tx Store) error {
		for i := range stale {
			p := &stale[i]
			p.ReminderSentAt = &now
			p.ReminderCount++
			if err := tx.SaveProposal(p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stamp reminders: %w", err)
	}

	s.log.Info("reminder sweep complete",
		zap.Int("proposals", summary.Count),
		zap.Int("thresholdDays", thresholdDays))

	return summary, nil
}
