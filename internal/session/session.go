package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State состояние жизненного цикла сессии
type State int

const (
	StateInit        State = iota // загружается из хранилища
	StateActive                   // токен прикладывается к запросам
	StateInvalidated              // backend отклонил токен
	StateCleared                  // удалена из хранилища
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateActive:
		return "active"
	case StateInvalidated:
		return "invalidated"
	case StateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Record сериализуемая часть сессии
type Record struct {
	ID     string `json:"id"`
	Token  string `json:"token"`
	Claims Claims `json:"claims"`
}

// Session явный объект авторизации, передаваемый сетевому слою
type Session struct {
	mu           sync.RWMutex
	id           string
	token        string
	claims       Claims
	state        State
	deadline     time.Time // срок записи в хранилище; нулевой - без ограничения
	onInvalidate func(ctx context.Context, s *Session)
}

func newSession(rec Record, onInvalidate func(ctx context.Context, s *Session)) *Session {
	return &Session{
		id:           rec.ID,
		token:        rec.Token,
		claims:       rec.Claims,
		state:        StateInit,
		onInvalidate: onInvalidate,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Claims() Claims {
	return s.claims
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Active возвращает true, пока токен можно прикладывать к запросам
func (s *Session) Active() bool {
	return s.State() == StateActive
}

// Token возвращает bearer-токен; false, если сессия недействительна
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateActive {
		return "", false
	}
	return s.token, true
}

// Invalidate принудительный logout после 401/403. Повторные вызовы ничего не делают
func (s *Session) Invalidate(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.state = StateInvalidated
	hook := s.onInvalidate
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, s)
	}
}

// expiredAt истек срок токена или записи в хранилище
func (s *Session) expiredAt(now time.Time) bool {
	if s.claims.Expired(now) {
		return true
	}
	return !s.deadline.IsZero() && !now.Before(s.deadline)
}

func (s *Session) activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateInit {
		s.state = StateActive
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCleared
	s.token = ""
}

func (s *Session) record() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Record{ID: s.id, Token: s.token, Claims: s.claims}
}

// String нужен для логов
func (s *Session) String() string {
	return fmt.Sprintf("session(%s, %s)", s.id, s.State())
}

// New создает активную сессию вне менеджера: без хранилища и без реакции на Invalidate
func New(id, token string, claims Claims) *Session {
	s := newSession(Record{ID: id, Token: token, Claims: claims}, nil)
	s.activate()
	return s
}
