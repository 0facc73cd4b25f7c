package booking_form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// RegistryConfig настройки реестра форм
type RegistryConfig struct {
	Location      *time.Location
	Strict        bool
	FetchTimeout  time.Duration
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Registry хранит открытые формы, привязанные к сессиям
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Controller

	baseCtx context.Context
	cancel  context.CancelFunc

	backendFor   BackendProvider
	loader       CatalogLoader
	journal      Journal
	metrics      Metrics
	cfg          RegistryConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewRegistry создает реестр форм. journal может быть nil (журнал отключен)
func NewRegistry(
	backendFor BackendProvider,
	loader CatalogLoader,
	journal Journal,
	metrics Metrics,
	cfg RegistryConfig,
	logger Logger,
) *Registry {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		forms:        make(map[string]*Controller),
		baseCtx:      ctx,
		cancel:       cancel,
		backendFor:   backendFor,
		loader:       loader,
		journal:      journal,
		metrics:      metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Open открывает форму: загружает каталог и создает пустой выбор.
// Ошибка загрузки каталога не мешает открытию - форма работает в деградированном режиме
func (r *Registry) Open(ctx context.Context, sess *session.Session) (*Controller, error) {
	backend := r.backendFor(sess)

	cat, err := r.loader.Load(ctx, backend)
	if err != nil {
		if isSessionError(err) {
			return nil, err
		}
		r.logger.Warn("Open: session=%s catalog unavailable, opening degraded form: %v", sess.ID(), err)
	}

	id := uuid.NewString()
	controller := NewController(r.baseCtx, ControllerConfig{
		ID: id,
		Owner: Owner{
			SessionID: sess.ID(),
			Subject:   sess.Claims().Subject,
		},
		Backend:      backend,
		Catalog:      cat,
		CatalogErr:   err,
		Location:     r.cfg.Location,
		Strict:       r.cfg.Strict,
		FetchTimeout: r.cfg.FetchTimeout,
		Journal:      r.journal,
		Metrics:      r.metrics,
		TimeProvider: r.timeProvider,
		Logger:       r.logger,
	})

	r.mu.Lock()
	r.forms[id] = controller
	active := len(r.forms)
	r.mu.Unlock()

	r.metrics.ActiveFormsSet(active)
	r.logger.Info("Open: form=%s opened for session=%s", id, sess.ID())
	return controller, nil
}

// Get возвращает форму, если она принадлежит сессии
func (r *Registry) Get(formID, sessionID string) (*Controller, error) {
	r.mu.RLock()
	controller, ok := r.forms[formID]
	r.mu.RUnlock()

	if !ok || controller.Owner().SessionID != sessionID {
		return nil, fmt.Errorf("%w: id=%s", ErrFormNotFound, formID)
	}
	return controller, nil
}

// Discard закрывает форму (пользователь ушел со страницы)
func (r *Registry) Discard(formID, sessionID string) error {
	r.mu.Lock()
	controller, ok := r.forms[formID]
	if !ok || controller.Owner().SessionID != sessionID {
		r.mu.Unlock()
		return fmt.Errorf("%w: id=%s", ErrFormNotFound, formID)
	}
	delete(r.forms, formID)
	active := len(r.forms)
	r.mu.Unlock()

	controller.Close()
	r.metrics.ActiveFormsSet(active)
	return nil
}

// DiscardSession закрывает все формы сессии (logout)
func (r *Registry) DiscardSession(sessionID string) int {
	r.mu.Lock()
	var closed []*Controller
	for id, controller := range r.forms {
		if controller.Owner().SessionID == sessionID {
			closed = append(closed, controller)
			delete(r.forms, id)
		}
	}
	active := len(r.forms)
	r.mu.Unlock()

	for _, controller := range closed {
		controller.Close()
	}
	r.metrics.ActiveFormsSet(active)
	return len(closed)
}

// EvictIdle закрывает формы без обращений дольше IdleTTL
func (r *Registry) EvictIdle(now time.Time) int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	var evicted []*Controller
	for id, controller := range r.forms {
		if now.Sub(controller.LastAccess()) > r.cfg.IdleTTL {
			evicted = append(evicted, controller)
			delete(r.forms, id)
		}
	}
	active := len(r.forms)
	r.mu.Unlock()

	for _, controller := range evicted {
		controller.Close()
	}
	if len(evicted) > 0 {
		r.logger.Info("EvictIdle: closed %d idle forms", len(evicted))
	}
	r.metrics.ActiveFormsSet(active)
	return len(evicted)
}

// Run периодически вытесняет простаивающие формы до отмены ctx
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.SweepInterval
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
			r.EvictIdle(r.timeProvider.Now())
		}
	}
}

// Close закрывает все формы и отменяет их запросы
func (r *Registry) Close() {
	r.mu.Lock()
	forms := r.forms
	r.forms = make(map[string]*Controller)
	r.mu.Unlock()

	for _, controller := range forms {
		controller.Close()
	}
	r.cancel()
	r.metrics.ActiveFormsSet(0)
}

// isSessionError сессия недействительна - открывать форму бессмысленно
func isSessionError(err error) bool {
	return errors.Is(err, schedulingapi.ErrSessionInactive) ||
		errors.Is(err, schedulingapi.ErrUnauthorized) ||
		errors.Is(err, schedulingapi.ErrForbidden)
}
