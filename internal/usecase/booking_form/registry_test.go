package booking_form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/service/catalog"
	"github.com/m04kA/SMC-BookingForm/internal/session"
	"github.com/m04kA/SMC-BookingForm/pkg/logger"
)

func newTestRegistry(t *testing.T, backend *fakeBackend) (*Registry, *recordingMetrics, *fixedClock) {
	t.Helper()

	metrics := &recordingMetrics{}
	clock := newClock()
	registry := NewRegistry(
		func(*session.Session) Backend { return backend },
		catalog.NewLoader(logger.NewNop()),
		&fakeJournal{},
		metrics,
		RegistryConfig{
			Location:     testLocation,
			FetchTimeout: time.Second,
			IdleTTL:      30 * time.Minute,
		},
		logger.NewNop(),
	)
	registry.timeProvider = clock
	t.Cleanup(registry.Close)

	return registry, metrics, clock
}

func testSession(id string) *session.Session {
	return session.New(id, "token-"+id, session.Claims{Subject: id + "@example.com"})
}

func TestRegistry_OpenAndGet(t *testing.T) {
	registry, metrics, _ := newTestRegistry(t, newFakeBackend())
	sess := testSession("s1")

	form, err := registry.Open(context.Background(), sess)
	require.NoError(t, err)
	assert.NotEmpty(t, form.ID())
	assert.Equal(t, "s1@example.com", form.Owner().Subject)

	snap := form.Snapshot()
	assert.Nil(t, snap.CatalogErr)
	assert.Len(t, snap.Professionals, 2)
	assert.Equal(t, 1, metrics.activeForms)

	got, err := registry.Get(form.ID(), "s1")
	require.NoError(t, err)
	assert.Same(t, form, got)

	_, err = registry.Get(form.ID(), "another-session")
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = registry.Get("missing", "s1")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestRegistry_OpenDegraded(t *testing.T) {
	backend := newFakeBackend()
	backend.catalogErr = schedulingapi.NewStatusError(500, "")
	registry, _, _ := newTestRegistry(t, backend)

	form, err := registry.Open(context.Background(), testSession("s1"))
	require.NoError(t, err, "catalog failure does not block the form")

	snap := form.Snapshot()
	assert.ErrorIs(t, snap.CatalogErr, catalog.ErrLoadFailed)
	assert.Empty(t, snap.Professionals)
}

func TestRegistry_OpenWithRejectedSession(t *testing.T) {
	backend := newFakeBackend()
	backend.catalogErr = schedulingapi.NewStatusError(401, "")
	registry, metrics, _ := newTestRegistry(t, backend)

	_, err := registry.Open(context.Background(), testSession("s1"))
	assert.ErrorIs(t, err, schedulingapi.ErrUnauthorized)
	assert.Equal(t, 0, metrics.activeForms)
}

func TestRegistry_Discard(t *testing.T) {
	registry, metrics, _ := newTestRegistry(t, newFakeBackend())

	form, err := registry.Open(context.Background(), testSession("s1"))
	require.NoError(t, err)

	assert.ErrorIs(t, registry.Discard(form.ID(), "s2"), ErrFormNotFound)
	require.NoError(t, registry.Discard(form.ID(), "s1"))

	_, err = registry.Get(form.ID(), "s1")
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.ErrorIs(t, form.SetProfessional(ptrInt64(idP1)), ErrFormClosed)
	assert.Equal(t, 0, metrics.activeForms)
}

func TestRegistry_DiscardSession(t *testing.T) {
	registry, _, _ := newTestRegistry(t, newFakeBackend())
	ctx := context.Background()

	a, err := registry.Open(ctx, testSession("s1"))
	require.NoError(t, err)
	_, err = registry.Open(ctx, testSession("s1"))
	require.NoError(t, err)
	other, err := registry.Open(ctx, testSession("s2"))
	require.NoError(t, err)

	assert.Equal(t, 2, registry.DiscardSession("s1"))

	_, err = registry.Get(a.ID(), "s1")
	assert.ErrorIs(t, err, ErrFormNotFound)
	_, err = registry.Get(other.ID(), "s2")
	assert.NoError(t, err)
}

func TestRegistry_EvictIdle(t *testing.T) {
	backend := newFakeBackend()
	cancelled := make(chan struct{})
	backend.availability = func(ctx context.Context, _ availabilityCall) ([]string, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}
	registry, metrics, clock := newTestRegistry(t, backend)
	ctx := context.Background()

	idle, err := registry.Open(ctx, testSession("s1"))
	require.NoError(t, err)
	require.NoError(t, idle.SetProfessional(ptrInt64(idP1)))
	require.NoError(t, idle.SetServices([]int64{idS1}))
	require.NoError(t, idle.SetDate(date(t, "2025-06-01")))

	clock.Advance(20 * time.Minute)
	fresh, err := registry.Open(ctx, testSession("s2"))
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, registry.EvictIdle(clock.Now()))

	_, err = registry.Get(idle.ID(), "s1")
	assert.ErrorIs(t, err, ErrFormNotFound)
	_, err = registry.Get(fresh.ID(), "s2")
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.activeForms)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("evicted form kept its availability request running")
	}
}

func TestRegistry_Run(t *testing.T) {
	registry, _, clock := newTestRegistry(t, newFakeBackend())
	registry.cfg.SweepInterval = 10 * time.Millisecond

	form, err := registry.Open(context.Background(), testSession("s1"))
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		registry.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := registry.Get(form.ID(), "s1")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
