package booking_form

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/service/catalog"
	"github.com/m04kA/SMC-BookingForm/pkg/logger"
)

const (
	idP1 int64 = 1
	idP2 int64 = 2
	idS1 int64 = 11
	idS2 int64 = 12
	idS3 int64 = 13
)

var testLocation = time.UTC

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fixedClock {
	return &fixedClock{now: time.Date(2025, time.May, 30, 15, 0, 0, 0, testLocation)}
}

type availabilityCall struct {
	ProfessionalID  int64
	Date            string
	DurationMinutes int
}

type fakeBackend struct {
	mu sync.Mutex

	professionals []schedulingapi.Professional
	services      []schedulingapi.Service
	catalogErr    error

	// availability по умолчанию отвечает slots
	slots        []string
	availability func(ctx context.Context, call availabilityCall) ([]string, error)
	calls        []availabilityCall

	created     *schedulingapi.Appointment
	createErr   error
	createCalls []schedulingapi.CreateAppointmentRequest
	createGate  chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		professionals: []schedulingapi.Professional{
			{ID: idP1, Nome: "P1", ServicosIDs: []int64{idS1, idS2}},
			{ID: idP2, Nome: "P2", ServicosIDs: []int64{idS3}},
		},
		services: []schedulingapi.Service{
			{ID: idS1, Nome: "S1", Preco: 30, DuracaoMinutos: 30},
			{ID: idS2, Nome: "S2", Preco: 45, DuracaoMinutos: 45},
			{ID: idS3, Nome: "S3", Preco: 20, DuracaoMinutos: 20},
		},
		slots: []string{"09:00", "09:30"},
	}
}

func (f *fakeBackend) ListProfessionals(context.Context) ([]schedulingapi.Professional, error) {
	return f.professionals, f.catalogErr
}

func (f *fakeBackend) ListServices(context.Context) ([]schedulingapi.Service, error) {
	return f.services, f.catalogErr
}

func (f *fakeBackend) GetAvailability(ctx context.Context, professionalID int64, date time.Time, durationMinutes int) ([]string, error) {
	call := availabilityCall{
		ProfessionalID:  professionalID,
		Date:            date.Format(domain.DateFormat),
		DurationMinutes: durationMinutes,
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	fn := f.availability
	slots := f.slots
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, call)
	}
	return slots, nil
}

func (f *fakeBackend) CreateAppointment(ctx context.Context, req schedulingapi.CreateAppointmentRequest) (*schedulingapi.Appointment, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, req)
	gate := f.createGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &schedulingapi.Appointment{}, nil
}

func (f *fakeBackend) availabilityCalls() []availabilityCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]availabilityCall(nil), f.calls...)
}

func (f *fakeBackend) createCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createCalls)
}

type fakeJournal struct {
	mu      sync.Mutex
	records []domain.Submission
}

func (j *fakeJournal) Create(_ context.Context, s *domain.Submission) (*domain.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s.ID = int64(len(j.records) + 1)
	j.records = append(j.records, *s)
	return s, nil
}

func (j *fakeJournal) outcomes() []domain.SubmissionOutcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	result := make([]domain.SubmissionOutcome, 0, len(j.records))
	for _, r := range j.records {
		result = append(result, r.Outcome)
	}
	return result
}

type recordingMetrics struct {
	mu          sync.Mutex
	issued      int
	applied     int
	discarded   int
	failed      int
	submissions map[string]int
	activeForms int
}

func (m *recordingMetrics) AvailabilityFetchIssued() { m.inc(&m.issued) }

func (m *recordingMetrics) AvailabilityFetchApplied() { m.inc(&m.applied) }

func (m *recordingMetrics) AvailabilityFetchDiscarded() { m.inc(&m.discarded) }

func (m *recordingMetrics) AvailabilityFetchFailed() { m.inc(&m.failed) }

func (m *recordingMetrics) SubmissionObserved(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submissions == nil {
		m.submissions = make(map[string]int)
	}
	m.submissions[outcome]++
}

func (m *recordingMetrics) ActiveFormsSet(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeForms = n
}

func (m *recordingMetrics) inc(counter *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter++
}

func (m *recordingMetrics) get(counter *int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *counter
}

type testForm struct {
	*Controller
	backend *fakeBackend
	journal *fakeJournal
	metrics *recordingMetrics
	clock   *fixedClock
}

func newTestForm(t *testing.T, backend *fakeBackend, strict bool) *testForm {
	t.Helper()

	cat, err := catalog.NewLoader(logger.NewNop()).Load(context.Background(), backend)
	require.NoError(t, err)

	journal := &fakeJournal{}
	metrics := &recordingMetrics{}
	clock := newClock()

	controller := NewController(context.Background(), ControllerConfig{
		ID:           "form-1",
		Owner:        Owner{SessionID: "session-1", Subject: "maria@example.com"},
		Backend:      backend,
		Catalog:      cat,
		Location:     testLocation,
		Strict:       strict,
		FetchTimeout: 2 * time.Second,
		Journal:      journal,
		Metrics:      metrics,
		TimeProvider: clock,
		Logger:       logger.NewNop(),
	})
	t.Cleanup(controller.Close)

	return &testForm{
		Controller: controller,
		backend:    backend,
		journal:    journal,
		metrics:    metrics,
		clock:      clock,
	}
}

func (f *testForm) waitSlots(t *testing.T) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.WaitAvailability(ctx))
	return f.Snapshot()
}

func ptrInt64(v int64) *int64 {
	return &v
}

func date(t *testing.T, value string) *time.Time {
	t.Helper()
	d, err := time.ParseInLocation(domain.DateFormat, value, testLocation)
	require.NoError(t, err)
	return &d
}

func serviceIDsOf(snap Snapshot) []int64 {
	return serviceIDs(snap.SelectedServices)
}
