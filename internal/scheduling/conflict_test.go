package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-booking-server/internal/models"
)

func seedConfirmed(st *fakeStore, patient *models.User, apptType *models.AppointmentType, date time.Time, startClock, endClock string) *models.Appointment {
	a := seedRequest(st, patient, apptType)
	day := dateOnly(date)
	start := at(date, startClock)
	end := at(date, endClock)
	a.Date = &day
	a.StartTime = &start
	a.EndTime = &end
	a.Status = models.StatusConfirmed
	return a
}

func TestCheckConflictOverlapBlocks(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)
	booked := seedConfirmed(st, patient, apptType, bookingDate, "09:00", "09:30")

	conflicted, conflicts, err := svc.CheckConflict(
		bookingDate, at(bookingDate, "09:15"), at(bookingDate, "09:45"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.True(t, conflicted)
	require.Len(t, conflicts, 1)
	assert.Equal(t, booked.ID, conflicts[0].AppointmentID)
	assert.False(t, conflicts[0].Tentative)
}

func TestCheckConflictTrailingBuffer(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)
	seedConfirmed(st, patient, apptType, bookingDate, "09:00", "09:30")

	// Starting right at the occupied end still collides with the 5 minute
	// buffer; starting after the buffer does not.
	conflicted, _, err := svc.CheckConflict(
		bookingDate, at(bookingDate, "09:30"), at(bookingDate, "10:00"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.True(t, conflicted)

	conflicted, _, err = svc.CheckConflict(
		bookingDate, at(bookingDate, "09:35"), at(bookingDate, "10:05"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.False(t, conflicted)
}

func TestCheckConflictNoLeadingBuffer(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)
	seedConfirmed(st, patient, apptType, bookingDate, "09:00", "09:30")

	// A candidate ending exactly when the occupied interval starts is fine.
	conflicted, _, err := svc.CheckConflict(
		bookingDate, at(bookingDate, "08:30"), at(bookingDate, "09:00"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.False(t, conflicted)
}

func TestCheckConflictIgnoresCancelledAndOtherDays(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)

	cancelled := seedConfirmed(st, patient, apptType, bookingDate, "09:00", "09:30")
	cancelled.Status = models.StatusCancelled
	seedConfirmed(st, patient, apptType, bookingDate.AddDate(0, 0, 1), "09:00", "09:30")

	conflicted, _, err := svc.CheckConflict(
		bookingDate, at(bookingDate, "09:00"), at(bookingDate, "09:30"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.False(t, conflicted)
}

func TestCheckConflictExcludesOwnAppointment(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)
	booked := seedConfirmed(st, patient, apptType, bookingDate, "09:00", "09:30")

	conflicted, _, err := svc.CheckConflict(
		bookingDate, at(bookingDate, "09:00"), at(bookingDate, "09:30"), booked.ID, OccupyingStatuses)
	require.NoError(t, err)
	assert.False(t, conflicted)
}

func TestCheckConflictCountsPendingProposals(t *testing.T) {
	svc, st, _ := newTestService(clockNow)
	patient := seedPatient(st)
	apptType := seedType(st, 30)
	appt := seedRequest(st, patient, apptType)

	st.proposals["p1"] = &models.AppointmentProposal{
		BaseModel:     models.BaseModel{ID: "p1", CreatedAt: clockNow},
		AppointmentID: appt.ID,
		ProposedDate:  dateOnly(bookingDate),
		ProposedStart: at(bookingDate, "10:00"),
		ProposedEnd:   at(bookingDate, "10:30"),
		Token:         "tok-open",
		ExpiresAt:     clockNow.Add(24 * time.Hour),
		Status:        models.ProposalPending,
	}

	conflicted, conflicts, err := svc.CheckConflict(
		bookingDate, at(bookingDate, "10:15"), at(bookingDate, "10:45"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.True(t, conflicted)
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Tentative)

	// Resolved or expired proposals release the tentative hold.
	st.proposals["p1"].Status = models.ProposalRejected
	conflicted, _, err = svc.CheckConflict(
		bookingDate, at(bookingDate, "10:15"), at(bookingDate, "10:45"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.False(t, conflicted)

	st.proposals["p1"].Status = models.ProposalPending
	st.proposals["p1"].ExpiresAt = clockNow.Add(-time.Hour)
	conflicted, _, err = svc.CheckConflict(
		bookingDate, at(bookingDate, "10:15"), at(bookingDate, "10:45"), "", OccupyingStatuses)
	require.NoError(t, err)
	assert.False(t, conflicted)
}
