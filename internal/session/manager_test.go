package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingForm/pkg/logger"
)

func TestManager_StartAndInit(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	manager, mr := newTestManager(t, clock)

	token := signToken(t, jwt.MapClaims{
		"sub": "maria@example.com",
		"exp": clock.now.Add(30 * time.Minute).Unix(),
	})

	sess, err := manager.Start(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, StateActive, sess.State())

	got, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, token, got)

	// TTL ограничен сроком жизни токена, а не настройкой в час
	ttl := mr.TTL(DefaultKeyPrefix + sess.ID())
	assert.Equal(t, 30*time.Minute, ttl)

	same, err := manager.Init(ctx, sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, same)
}

func TestManager_InitFromStore(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	store, _ := newTestStore(t)

	first := NewManager(store, time.Hour, clock, logger.NewNop())
	token := signToken(t, jwt.MapClaims{"sub": "joao", "exp": clock.now.Add(2 * time.Hour).Unix()})
	sess, err := first.Start(ctx, token)
	require.NoError(t, err)

	// новый процесс: пустой кэш, та же Redis
	second := NewManager(store, time.Hour, clock, logger.NewNop())
	restored, err := second.Init(ctx, sess.ID())
	require.NoError(t, err)
	assert.Equal(t, StateActive, restored.State())
	assert.Equal(t, "joao", restored.Claims().Subject)
}

func TestManager_InitExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	store, _ := newTestStore(t)

	first := NewManager(store, 0, clock, logger.NewNop())
	token := signToken(t, jwt.MapClaims{"sub": "joao", "exp": clock.now.Add(time.Hour).Unix()})
	sess, err := first.Start(ctx, token)
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Hour)
	second := NewManager(store, 0, clock, logger.NewNop())

	_, err = second.Init(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.Load(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_StartRejectsExpiredToken(t *testing.T) {
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	manager, _ := newTestManager(t, clock)

	token := signToken(t, jwt.MapClaims{"sub": "joao", "exp": clock.now.Add(-time.Minute).Unix()})
	_, err := manager.Start(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_InitUnknown(t *testing.T) {
	manager, _ := newTestManager(t, &fixedClock{now: time.Now()})
	_, err := manager.Init(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_Invalidate(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	manager, mr := newTestManager(t, clock)

	sess, err := manager.Start(ctx, signToken(t, jwt.MapClaims{"sub": "joao"}))
	require.NoError(t, err)

	sess.Invalidate(ctx)
	sess.Invalidate(ctx)

	assert.Equal(t, StateInvalidated, sess.State())
	_, ok := sess.Token()
	assert.False(t, ok)
	assert.False(t, mr.Exists(DefaultKeyPrefix+sess.ID()))

	_, err = manager.Init(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrSessionInvalidated)

	manager.Forget(sess.ID())
	assert.Equal(t, StateCleared, sess.State())

	_, err = manager.Init(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_Clear(t *testing.T) {
	ctx := context.Background()
	manager, mr := newTestManager(t, &fixedClock{now: time.Now()})

	sess, err := manager.Start(ctx, signToken(t, jwt.MapClaims{"sub": "joao"}))
	require.NoError(t, err)

	manager.Clear(ctx, sess)
	assert.Equal(t, StateCleared, sess.State())
	assert.False(t, mr.Exists(DefaultKeyPrefix+sess.ID()))

	_, err = manager.Init(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func (m *Manager) cachedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func TestManager_EvictExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	manager, mr := newTestManager(t, clock)

	var started []*Session
	for i := 0; i < 50; i++ {
		sess, err := manager.Start(ctx, signToken(t, jwt.MapClaims{
			"sub": "maria@example.com",
			"exp": clock.now.Add(time.Hour).Unix(),
		}))
		require.NoError(t, err)
		started = append(started, sess)
	}
	// без exp срок задает TTL менеджера
	noExp, err := manager.Start(ctx, signToken(t, jwt.MapClaims{"sub": "joao"}))
	require.NoError(t, err)
	started = append(started, noExp)
	require.Equal(t, 51, manager.cachedCount())

	assert.Empty(t, manager.EvictExpired(clock.now.Add(30*time.Minute)))
	assert.Equal(t, 51, manager.cachedCount())

	clock.now = clock.now.Add(48 * time.Hour)
	mr.FastForward(48 * time.Hour)

	fresh, err := manager.Start(ctx, signToken(t, jwt.MapClaims{
		"sub": "ana",
		"exp": clock.now.Add(time.Hour).Unix(),
	}))
	require.NoError(t, err)

	evicted := manager.EvictExpired(clock.now)
	assert.Len(t, evicted, 51)
	assert.Equal(t, 1, manager.cachedCount())
	// в Redis остается только свежая сессия
	assert.Equal(t, []string{DefaultKeyPrefix + fresh.ID()}, mr.Keys())

	for _, sess := range started {
		assert.Equal(t, StateCleared, sess.State())
		_, ok := sess.Token()
		assert.False(t, ok)
	}

	got, err := manager.Init(ctx, fresh.ID())
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestManager_EvictExpiredDropsInvalidated(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	manager, _ := newTestManager(t, clock)

	sess, err := manager.Start(ctx, signToken(t, jwt.MapClaims{"sub": "joao"}))
	require.NoError(t, err)
	sess.Invalidate(ctx)

	assert.Equal(t, []string{sess.ID()}, manager.EvictExpired(clock.now))
	assert.Equal(t, 0, manager.cachedCount())

	_, err = manager.Init(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

type recordingDiscarder struct {
	mu  sync.Mutex
	ids []string
}

func (d *recordingDiscarder) DiscardSession(sessionID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, sessionID)
	return 1
}

func (d *recordingDiscarder) discarded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ids...)
}

func TestManager_RunEvictsAndDiscardsForms(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC)}
	manager, _ := newTestManager(t, clock)

	sess, err := manager.Start(ctx, signToken(t, jwt.MapClaims{
		"sub": "maria@example.com",
		"exp": clock.now.Add(time.Minute).Unix(),
	}))
	require.NoError(t, err)

	// часы сдвигаются до запуска цикла
	clock.now = clock.now.Add(time.Hour)

	forms := &recordingDiscarder{}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		manager.Run(runCtx, 5*time.Millisecond, forms)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return manager.cachedCount() == 0
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(forms.discarded()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{sess.ID()}, forms.discarded())

	cancel()
	<-done
}
