package booking_form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/service/catalog"
	"github.com/m04kA/SMC-BookingForm/pkg/types"
)

// State текущий выбор пользователя. Единственный писатель - Controller
type State struct {
	Professional   *domain.Professional
	Services       []domain.Service
	Date           *time.Time
	AvailableSlots domain.SlotSet // nil - слоты еще не получены
	Slot           *types.TimeString
}

// Owner владелец формы
type Owner struct {
	SessionID string
	Subject   string
}

// ControllerConfig зависимости и настройки контроллера формы
type ControllerConfig struct {
	ID           string
	Owner        Owner
	Backend      Backend
	Catalog      *catalog.Catalog
	CatalogErr   error
	Location     *time.Location
	Strict       bool // ошибка вместо молчаливого отбрасывания чужих услуг
	FetchTimeout time.Duration
	Journal      Journal
	Metrics      Metrics
	TimeProvider TimeProvider
	Logger       Logger
}

// Controller каскад зависимого выбора: профессионал -> услуги -> дата -> слот -> отправка
type Controller struct {
	mu         sync.Mutex
	id         string
	owner      Owner
	backend    Backend
	catalog    *catalog.Catalog
	catalogErr error
	state      State
	fetcher    *Fetcher
	submitting bool
	closed     bool
	lastAccess time.Time
	cancel     context.CancelFunc

	location     *time.Location
	strict       bool
	journal      Journal
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewController создает форму с пустым выбором. ctx ограничивает жизнь фоновых запросов
func NewController(ctx context.Context, cfg ControllerConfig) *Controller {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = &RealTimeProvider{}
	}

	formCtx, cancel := context.WithCancel(ctx)

	c := &Controller{
		id:           cfg.ID,
		owner:        cfg.Owner,
		backend:      cfg.Backend,
		catalog:      cfg.Catalog,
		catalogErr:   cfg.CatalogErr,
		cancel:       cancel,
		location:     cfg.Location,
		strict:       cfg.Strict,
		journal:      cfg.Journal,
		metrics:      cfg.Metrics,
		timeProvider: cfg.TimeProvider,
		logger:       cfg.Logger,
	}
	if c.catalog == nil && c.catalogErr == nil {
		c.catalogErr = ErrCatalogUnavailable
	}
	c.lastAccess = c.timeProvider.Now()
	c.fetcher = NewFetcher(formCtx, c.requestAvailability, cfg.FetchTimeout, cfg.Metrics)

	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Owner() Owner {
	return c.owner
}

// SetProfessional выбирает профессионала (nil - сброс).
// Всегда очищает услуги, дату и слоты, даже если профессионал тот же
func (c *Controller) SetProfessional(id *int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.beginLocked(); err != nil {
		return err
	}

	var professional *domain.Professional
	if id != nil {
		if c.catalog == nil {
			return ErrCatalogUnavailable
		}
		p, ok := c.catalog.Professional(*id)
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrProfessionalNotFound, *id)
		}
		professional = p
	}

	c.state.Professional = professional
	c.state.Services = nil
	c.state.Date = nil
	c.clearSlotsLocked()
	c.fetcher.Invalidate()

	return nil
}

// SetServices задает выбранные услуги. Повторы схлопываются, порядок выбора сохраняется.
// Услуги вне списка профессионала: в strict-режиме ошибка, иначе отбрасываются
func (c *Controller) SetServices(ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.beginLocked(); err != nil {
		return err
	}

	ids = uniqueIDs(ids)
	if len(ids) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: max %d", ErrTooManyServices, domain.MaxServicesPerAppointment)
	}
	if len(ids) > 0 && c.catalog == nil {
		return ErrCatalogUnavailable
	}

	var allowed []domain.Service
	if c.catalog != nil {
		allowed = c.catalog.ServicesFor(c.state.Professional)
	}

	selected := make([]domain.Service, 0, len(ids))
	var rejected []int64
	for _, id := range ids {
		s, ok := findService(allowed, id)
		if !ok {
			rejected = append(rejected, id)
			continue
		}
		selected = append(selected, s)
	}

	if len(rejected) > 0 {
		if c.strict {
			return fmt.Errorf("%w: ids=%v", ErrServiceNotAllowed, rejected)
		}
		c.logger.Warn("SetServices: form=%s dropped services not offered by the professional: %v", c.id, rejected)
	}

	// тот же набор: меняется только порядок отображения, слоты остаются актуальными
	if sameServiceSet(c.state.Services, selected) {
		c.state.Services = selected
		return nil
	}

	c.state.Services = selected
	c.refreshAvailabilityLocked()
	return nil
}

// SetDate задает дату (nil - сброс). Дата раньше сегодняшней отклоняется без изменения состояния
func (c *Controller) SetDate(date *time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.beginLocked(); err != nil {
		return err
	}

	var normalized *time.Time
	if date != nil {
		d := c.normalizeDate(*date)
		if d.Before(c.todayLocked()) {
			return fmt.Errorf("%w: %s", ErrDateInPast, d.Format(domain.DateFormat))
		}
		normalized = &d
	}

	if sameDate(c.state.Date, normalized) {
		return nil
	}

	c.state.Date = normalized
	c.refreshAvailabilityLocked()
	return nil
}

// SetSlot выбирает время из текущего списка свободных слотов
func (c *Controller) SetSlot(raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.beginLocked(); err != nil {
		return err
	}

	slot, err := types.NewTimeStringFromString(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if !c.state.AvailableSlots.Contains(slot) {
		return fmt.Errorf("%w: %s", ErrSlotNotAvailable, slot)
	}

	c.state.Slot = &slot
	return nil
}

// Submit отправляет запись в backend. Неполная форма не доходит до сети.
// Успех сбрасывает выбор; при ошибке выбор сохраняется для повтора
func (c *Controller) Submit(ctx context.Context) (*domain.Appointment, error) {
	c.mu.Lock()
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if c.state.Date != nil && c.state.Date.Before(c.todayLocked()) {
		// форма могла пережить полночь
		past := c.state.Date.Format(domain.DateFormat)
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDateInPast, past)
	}
	if !c.submittableLocked() {
		c.mu.Unlock()
		return nil, ErrIncomplete
	}

	req := schedulingapi.CreateAppointmentRequest{
		ProfissionalID: c.state.Professional.ID,
		ServicosIDs:    serviceIDs(c.state.Services),
		DataHora:       c.state.Slot.OnDate(*c.state.Date),
	}
	fallback := c.pendingAppointmentLocked(req.DataHora)
	c.submitting = true
	c.mu.Unlock()

	c.logger.Info("Submit: form=%s professional=%d services=%v dataHora=%s",
		c.id, req.ProfissionalID, req.ServicosIDs, req.DataHora)

	created, err := c.backend.CreateAppointment(ctx, req)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		outcome := domain.SubmissionFailed
		if schedulingapi.IsClientError(err) {
			outcome = domain.SubmissionRejected
		}
		if errors.Is(err, schedulingapi.ErrConflict) {
			// слот мог занять другой клиент - список слотов считаем устаревшим
			c.refreshAvailabilityLocked()
		}
		c.mu.Unlock()

		c.record(ctx, req, outcome, err)
		c.logger.Warn("Submit: form=%s %s: %v", c.id, outcome, err)
		if outcome == domain.SubmissionRejected {
			return nil, fmt.Errorf("%w: %w", ErrSubmitRejected, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	c.state = State{}
	c.fetcher.Invalidate()
	c.mu.Unlock()

	c.record(ctx, req, domain.SubmissionCreated, nil)
	c.logger.Info("Submit: form=%s appointment created", c.id)

	return mergeAppointment(created, fallback), nil
}

// Snapshot согласованный снимок состояния формы
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAccess = c.timeProvider.Now()

	snap := Snapshot{
		FormID:               c.id,
		CatalogErr:           c.catalogErr,
		Professional:         copyProfessional(c.state.Professional),
		SelectedServices:     append([]domain.Service(nil), c.state.Services...),
		TotalDurationMinutes: TotalDuration(c.state.Services),
		MinDate:              c.todayLocked(),
		SlotsLoading:         c.fetcher.Loading(),
		SlotsErr:             c.fetcher.Err(),
		Submittable:          !c.submitting && c.submittableLocked(),
		Submitting:           c.submitting,
	}
	if c.catalog != nil {
		snap.Professionals = c.catalog.Professionals()
		snap.ServiceOptions = c.catalog.ServicesFor(c.state.Professional)
	}
	if c.state.Date != nil {
		d := *c.state.Date
		snap.Date = &d
	}
	if c.state.AvailableSlots != nil {
		snap.AvailableSlots = append(domain.SlotSet{}, c.state.AvailableSlots...)
	}
	if c.state.Slot != nil {
		s := *c.state.Slot
		snap.Slot = &s
	}

	return snap
}

// WaitAvailability ждет завершения текущего запроса слотов
func (c *Controller) WaitAvailability(ctx context.Context) error {
	return c.fetcher.Wait(ctx)
}

// LastAccess время последнего обращения к форме
func (c *Controller) LastAccess() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAccess
}

// Close закрывает форму и отменяет фоновые запросы
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.fetcher.Invalidate()
	c.cancel()
}

func (c *Controller) beginLocked() error {
	if c.closed {
		return ErrFormClosed
	}
	c.lastAccess = c.timeProvider.Now()
	return nil
}

// refreshAvailabilityLocked синхронно очищает слоты и, если входные данные полные,
// выпускает новый запрос. Ответ предыдущего запроса будет отброшен
func (c *Controller) refreshAvailabilityLocked() {
	c.clearSlotsLocked()

	req, ok := c.availabilityRequestLocked()
	if !ok {
		c.fetcher.Invalidate()
		return
	}
	c.fetcher.Fetch(req, c.applyAvailability)
}

func (c *Controller) clearSlotsLocked() {
	c.state.AvailableSlots = nil
	c.state.Slot = nil
}

// availabilityRequestLocked нулевая длительность означает "данных недостаточно", а не ошибку
func (c *Controller) availabilityRequestLocked() (AvailabilityRequest, bool) {
	if c.state.Professional == nil || len(c.state.Services) == 0 || c.state.Date == nil {
		return AvailabilityRequest{}, false
	}
	duration := TotalDuration(c.state.Services)
	if duration <= 0 {
		return AvailabilityRequest{}, false
	}
	return AvailabilityRequest{
		ProfessionalID:  c.state.Professional.ID,
		Date:            *c.state.Date,
		DurationMinutes: duration,
	}, true
}

func (c *Controller) requestAvailability(ctx context.Context, req AvailabilityRequest) ([]string, error) {
	return c.backend.GetAvailability(ctx, req.ProfessionalID, req.Date, req.DurationMinutes)
}

// applyAvailability вызывается из горутины fetcher-а
func (c *Controller) applyAvailability(res AvailabilityResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetcher.Resolve(res) {
		return
	}

	if res.Err != nil {
		c.logger.Warn("Availability: form=%s professional=%d date=%s duration=%d failed: %v",
			c.id, res.Request.ProfessionalID, res.Request.Date.Format(domain.DateFormat), res.Request.DurationMinutes, res.Err)
		c.state.AvailableSlots = domain.SlotSet{}
		c.state.Slot = nil
		return
	}

	slots := make(domain.SlotSet, 0, len(res.Slots))
	for _, raw := range res.Slots {
		slot, err := types.NewTimeStringFromString(raw)
		if err != nil {
			c.logger.Warn("Availability: form=%s skipping malformed slot %q", c.id, raw)
			continue
		}
		slots = append(slots, slot)
	}
	c.state.AvailableSlots = slots
	c.state.Slot = nil
}

func (c *Controller) submittableLocked() bool {
	return c.state.Professional != nil &&
		len(c.state.Services) > 0 &&
		c.state.Date != nil &&
		!c.state.Date.Before(c.todayLocked()) &&
		c.state.Slot != nil &&
		c.state.AvailableSlots.Contains(*c.state.Slot)
}

func (c *Controller) todayLocked() time.Time {
	now := c.timeProvider.Now().In(c.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location)
}

// normalizeDate берет календарную дату как есть, без пересчета часового пояса
func (c *Controller) normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.location)
}

func (c *Controller) pendingAppointmentLocked(dataHora string) *domain.Appointment {
	names := make([]string, 0, len(c.state.Services))
	for _, s := range c.state.Services {
		names = append(names, s.Name)
	}
	return &domain.Appointment{
		DateTime:         dataHora,
		Status:           domain.StatusPending,
		ProfessionalName: c.state.Professional.Name,
		Services:         names,
	}
}

// record пишет попытку отправки в журнал; ошибка журнала не влияет на ответ
func (c *Controller) record(ctx context.Context, req schedulingapi.CreateAppointmentRequest, outcome domain.SubmissionOutcome, submitErr error) {
	c.metrics.SubmissionObserved(string(outcome))
	if c.journal == nil {
		return
	}

	submission := &domain.Submission{
		FormID:         c.id,
		UserSubject:    c.owner.Subject,
		ProfessionalID: req.ProfissionalID,
		ServiceIDs:     req.ServicosIDs,
		DateTime:       req.DataHora,
		Outcome:        outcome,
	}
	if submitErr != nil {
		msg := submitErr.Error()
		submission.Error = &msg
	}

	if _, err := c.journal.Create(context.WithoutCancel(ctx), submission); err != nil {
		c.logger.Error("Submit: form=%s failed to write journal: %v", c.id, err)
	}
}
