package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-booking-server/internal/models"
)

func seedStaleProposal(st *fakeStore, appt *models.Appointment, ageDays int) *models.AppointmentProposal {
	p := &models.AppointmentProposal{
		BaseModel: models.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: st.now.AddDate(0, 0, -ageDays),
		},
		AppointmentID: appt.ID,
		ProposedDate:  dateOnly(bookingDate),
		ProposedStart: at(bookingDate, "09:00"),
		ProposedEnd:   at(bookingDate, "09:30"),
		Token:         uuid.New().String(),
		ExpiresAt:     st.now.Add(720 * time.Hour),
		Status:        models.ProposalPending,
	}
	st.proposals[p.ID] = p
	return p
}

func TestReminderSweepDigestsStaleProposals(t *testing.T) {
	svc, st, ml := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)

	urgent := seedRequest(st, patient, apptType)
	urgent.Urgency = models.UrgencyUrgent
	normal := seedRequest(st, patient, apptType)
	fresh := seedRequest(st, patient, apptType)

	staleUrgent := seedStaleProposal(st, urgent, 5)
	staleNormal := seedStaleProposal(st, normal, 4)
	freshProposal := seedStaleProposal(st, fresh, 1)

	summary, err := svc.RunReminderSweep(3)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 1, summary.ByUrgency[models.UrgencyUrgent])
	assert.Equal(t, 1, summary.ByUrgency[models.UrgencyNormal])

	require.Equal(t, []TemplateKind{MailReminderDigest}, ml.kinds())
	require.Len(t, ml.sent[0].data.Digest, 2)

	// Stale proposals get stamped; the fresh one is untouched. Statuses stay
	// PENDING throughout, a reminder is not a state transition.
	assert.NotNil(t, st.proposals[staleUrgent.ID].ReminderSentAt)
	assert.Equal(t, 1, st.proposals[staleUrgent.ID].ReminderCount)
	assert.NotNil(t, st.proposals[staleNormal.ID].ReminderSentAt)
	assert.Nil(t, st.proposals[freshProposal.ID].ReminderSentAt)
	assert.Equal(t, models.ProposalPending, st.proposals[staleUrgent.ID].Status)
}

func TestReminderSweepDefaultsThreshold(t *testing.T) {
	svc, st, ml := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)
	appt := seedRequest(st, patient, apptType)
	seedStaleProposal(st, appt, 4)

	// 0 falls back to the configured 3 day threshold.
	summary, err := svc.RunReminderSweep(0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Len(t, ml.sent, 1)
}

func TestReminderSweepNothingStale(t *testing.T) {
	svc, st, ml := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)

	resolved := seedRequest(st, patient, apptType)
	p := seedStaleProposal(st, resolved, 10)
	p.Status = models.ProposalAccepted

	summary, err := svc.RunReminderSweep(3)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, ml.sent, "no digest when nothing is stale")
}
