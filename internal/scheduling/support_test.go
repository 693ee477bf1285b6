package scheduling

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"practice-booking-server/internal/config"
	"practice-booking-server/internal/models"
)

// fakeStore is an in-memory Store used by the scheduling tests.
type fakeStore struct {
	users        map[string]*models.User
	types        map[string]*models.AppointmentType
	windows      []models.AvailabilityWindow
	appointments map[string]*models.Appointment
	proposals    map[string]*models.AppointmentProposal
	now          time.Time
}

func newFakeStore(now time.Time) *fakeStore {
	return &fakeStore{
		users:        make(map[string]*models.User),
		types:        make(map[string]*models.AppointmentType),
		appointments: make(map[string]*models.Appointment),
		proposals:    make(map[string]*models.AppointmentProposal),
		now:          now,
	}
}

var errFakeNotFound = errors.New("record not found")

func (f *fakeStore) GetUser(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetAppointment(id string) (*models.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *a
	if u, ok := f.users[a.PatientID]; ok {
		copied.Patient = *u
	}
	if t, ok := f.types[a.AppointmentTypeID]; ok {
		copied.AppointmentType = *t
	}
	return &copied, nil
}

func (f *fakeStore) GetAppointmentType(id string) (*models.AppointmentType, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) ActiveWindows(day models.Weekday) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range f.windows {
		if w.DayOfWeek == day && w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) OccupiedIntervals(date time.Time, excludeAppointmentID string, statuses []models.AppointmentStatus) ([]Interval, error) {
	sameDay := func(t time.Time) bool {
		return t.Year() == date.Year() && t.Month() == date.Month() && t.Day() == date.Day()
	}
	inStatuses := func(s models.AppointmentStatus) bool {
		for _, st := range statuses {
			if st == s {
				return true
			}
		}
		return false
	}

	var out []Interval
	for _, a := range f.appointments {
		if a.ID == excludeAppointmentID || a.Date == nil || a.StartTime == nil || a.EndTime == nil {
			continue
		}
		if !sameDay(*a.Date) || !inStatuses(a.Status) {
			continue
		}
		out = append(out, Interval{AppointmentID: a.ID, Start: *a.StartTime, End: *a.EndTime})
	}
	for _, p := range f.proposals {
		if p.AppointmentID == excludeAppointmentID || p.Status != models.ProposalPending {
			continue
		}
		if !sameDay(p.ProposedDate) || p.IsExpired(f.now) {
			continue
		}
		out = append(out, Interval{
			AppointmentID: p.AppointmentID,
			Start:         p.ProposedStart,
			End:           p.ProposedEnd,
			Tentative:     true,
		})
	}
	return out, nil
}

func (f *fakeStore) GetProposalByToken(token string) (*models.AppointmentProposal, error) {
	for _, p := range f.proposals {
		if p.Token == token {
			copied := *p
			if a, ok := f.appointments[p.AppointmentID]; ok {
				copied.Appointment = *a
				if u, ok := f.users[a.PatientID]; ok {
					copied.Appointment.Patient = *u
				}
				if t, ok := f.types[a.AppointmentTypeID]; ok {
					copied.Appointment.AppointmentType = *t
				}
			}
			return &copied, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeStore) StalePendingProposals(cutoff time.Time) ([]models.AppointmentProposal, error) {
	var out []models.AppointmentProposal
	for _, p := range f.proposals {
		if p.Status != models.ProposalPending || !p.CreatedAt.Before(cutoff) {
			continue
		}
		copied := *p
		if a, ok := f.appointments[p.AppointmentID]; ok {
			copied.Appointment = *a
			if u, ok := f.users[a.PatientID]; ok {
				copied.Appointment.Patient = *u
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeStore) CreateAppointment(a *models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = f.now
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeStore) SaveAppointment(a *models.Appointment) error {
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeStore) CreateProposal(p *models.AppointmentProposal) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = f.now
	copied := *p
	f.proposals[p.ID] = &copied
	return nil
}

func (f *fakeStore) SaveProposal(p *models.AppointmentProposal) error {
	copied := *p
	f.proposals[p.ID] = &copied
	return nil
}

func (f *fakeStore) SupersedePendingProposals(appointmentID string) (int64, error) {
	var n int64
	for _, p := range f.proposals {
		if p.AppointmentID == appointmentID && p.Status == models.ProposalPending {
			p.Status = models.ProposalSuperseded
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) InTransaction(fn func(Store) error) error {
	return fn(f)
}

// fakeMailer records every send; it can be told to fail.
type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	kind TemplateKind
	data MailData
}

func (m *fakeMailer) Send(kind TemplateKind, data MailData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{kind: kind, data: data})
	return nil
}

func (m *fakeMailer) kinds() []TemplateKind {
	out := make([]TemplateKind, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.kind
	}
	return out
}

func testConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		SlotIntervalMinutes:   15,
		BufferMinutes:         5,
		ReminderThresholdDays: 3,
		ProposalTokenTTLHours: 168,
	}
}

// newTestService wires a service against the fakes with a fixed clock.
func newTestService(now time.Time) (*Service, *fakeStore, *fakeMailer) {
	st := newFakeStore(now)
	ml := &fakeMailer{}
	svc := New(st, ml, testConfig(), "http://localhost:3001", zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, st, ml
}

// seedPatient, seedType and seedRequest populate the fakes with one
// pending request ready for staff action.
func seedPatient(st *fakeStore) *models.User {
	u := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New().String()},
		Email:     "anna.mueller@example.com",
		FirstName: "Anna",
		LastName:  "Mueller",
		Role:      models.RolePatient,
	}
	st.users[u.ID] = u
	return u
}

func seedType(st *fakeStore, durationMinutes int) *models.AppointmentType {
	t := &models.AppointmentType{
		BaseModel:       models.BaseModel{ID: uuid.New().String()},
		Name:            "Checkup",
		DurationMinutes: durationMinutes,
		IsActive:        true,
	}
	st.types[t.ID] = t
	return t
}

func seedRequest(st *fakeStore, patient *models.User, apptType *models.AppointmentType) *models.Appointment {
	a := &models.Appointment{
		BaseModel:         models.BaseModel{ID: uuid.New().String(), CreatedAt: st.now},
		PatientID:         patient.ID,
		AppointmentTypeID: apptType.ID,
		Status:            models.StatusPending,
		Urgency:           models.UrgencyNormal,
	}
	st.appointments[a.ID] = a
	return a
}

// at builds a timestamp on the given date at "HH:MM".
func at(date time.Time, clock string) time.Time {
	minutes, err := models.ParseClock(clock)
	if err != nil {
		panic(err)
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(minutes) * time.Minute)
}
