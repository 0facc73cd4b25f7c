package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager управляет жизненным циклом сессий: init -> active -> invalidated -> cleared
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	store        Store
	ttl          time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewManager создает менеджер сессий. ttl ограничивает срок хранения сверху
func NewManager(store Store, ttl time.Duration, timeProvider TimeProvider, logger Logger) *Manager {
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}
	return &Manager{
		sessions:     make(map[string]*Session),
		store:        store,
		ttl:          ttl,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Start создает активную сессию для токена, выданного backend при логине
func (m *Manager) Start(ctx context.Context, token string) (*Session, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if claims.Expired(m.timeProvider.Now()) {
		return nil, ErrTokenExpired
	}

	sess := newSession(Record{
		ID:     uuid.NewString(),
		Token:  token,
		Claims: claims,
	}, m.handleInvalidate)

	ttl := m.ttlFor(claims)
	sess.deadline = m.deadlineFor(ttl)
	if err := m.store.Save(ctx, sess.record(), ttl); err != nil {
		return nil, err
	}

	sess.activate()

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()

	m.logger.Info("Session %s started for %s (role=%s)", sess.ID(), claims.Subject, claims.Role)
	return sess, nil
}

// Init восстанавливает сессию по id: сначала из памяти, затем из хранилища
func (m *Manager) Init(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		switch sess.State() {
		case StateActive:
			if !sess.expiredAt(m.timeProvider.Now()) {
				return sess, nil
			}
			m.Clear(ctx, sess)
			return nil, ErrSessionExpired
		case StateInvalidated:
			return nil, ErrSessionInvalidated
		default:
			return nil, ErrSessionNotFound
		}
	}

	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	sess = newSession(*rec, m.handleInvalidate)
	sess.deadline = m.deadlineFor(m.ttlFor(sess.Claims()))
	if sess.Claims().Expired(m.timeProvider.Now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("Failed to delete expired session %s: %v", id, err)
		}
		sess.clear()
		return nil, ErrSessionExpired
	}

	sess.activate()

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		// параллельный Init успел раньше
		m.mu.Unlock()
		if existing.Active() {
			return existing, nil
		}
		return nil, ErrSessionNotFound
	}
	m.sessions[id] = sess
	m.mu.Unlock()

	return sess, nil
}

// Clear удаляет сессию (logout)
func (m *Manager) Clear(ctx context.Context, sess *Session) {
	m.mu.Lock()
	delete(m.sessions, sess.ID())
	m.mu.Unlock()

	if err := m.store.Delete(ctx, sess.ID()); err != nil && !errors.Is(err, ErrSessionNotFound) {
		m.logger.Error("Failed to delete session %s: %v", sess.ID(), err)
	}
	sess.clear()
}

// handleInvalidate backend отклонил токен: удаляем сохраненную запись.
// В памяти сессия остается в состоянии invalidated, чтобы Init вернул понятную ошибку
func (m *Manager) handleInvalidate(ctx context.Context, sess *Session) {
	m.logger.Warn("Session %s invalidated by backend, clearing stored token", sess.ID())
	if err := m.store.Delete(context.WithoutCancel(ctx), sess.ID()); err != nil {
		m.logger.Error("Failed to delete invalidated session %s: %v", sess.ID(), err)
	}
}

// Forget удаляет invalidated-сессию из памяти после того, как клиент узнал о logout
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok && sess.State() != StateActive {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok && sess.State() != StateActive {
		sess.clear()
	}
}

// EvictExpired удаляет из памяти истекшие и неактивные сессии, возвращает их id.
// Записи в Redis к этому моменту уже удалены по TTL или при инвалидации
func (m *Manager) EvictExpired(now time.Time) []string {
	var evicted []*Session

	m.mu.Lock()
	for id, sess := range m.sessions {
		if sess.State() == StateActive && !sess.expiredAt(now) {
			continue
		}
		delete(m.sessions, id)
		evicted = append(evicted, sess)
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(evicted))
	for _, sess := range evicted {
		sess.clear()
		ids = append(ids, sess.ID())
	}
	if len(ids) > 0 {
		m.logger.Info("EvictExpired: removed %d sessions", len(ids))
	}
	return ids
}

// Run периодически вытесняет истекшие сессии до отмены ctx. forms может быть nil
func (m *Manager) Run(ctx context.Context, interval time.Duration, forms FormDiscarder) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range m.EvictExpired(m.timeProvider.Now()) {
				if forms != nil {
					forms.DiscardSession(id)
				}
			}
		}
	}
}

func (m *Manager) deadlineFor(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.timeProvider.Now().Add(ttl)
}

func (m *Manager) ttlFor(claims Claims) time.Duration {
	ttl := m.ttl
	if claims.ExpiresAt.IsZero() {
		return ttl
	}
	untilExpiry := claims.ExpiresAt.Sub(m.timeProvider.Now())
	if ttl <= 0 || untilExpiry < ttl {
		return untilExpiry
	}
	return ttl
}
