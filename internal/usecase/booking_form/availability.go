package booking_form

import (
	"context"
	"sync"
	"time"
)

// AvailabilityRequest входные данные запроса свободных слотов
type AvailabilityRequest struct {
	ProfessionalID  int64
	Date            time.Time
	DurationMinutes int
}

// AvailabilityResult ответ backend, помеченный поколением запроса
type AvailabilityResult struct {
	Generation uint64
	Request    AvailabilityRequest
	Slots      []string
	Err        error
}

// AvailabilityFunc выполняет сам запрос к backend
type AvailabilityFunc func(ctx context.Context, req AvailabilityRequest) ([]string, error)

// Fetcher запрашивает свободные слоты по принципу "побеждает последний выпущенный запрос".
// Каждый Fetch увеличивает поколение и отменяет предыдущий запрос; результат
// чужого поколения отбрасывается в Resolve
type Fetcher struct {
	mu         sync.Mutex
	baseCtx    context.Context
	timeout    time.Duration
	fetch      AvailabilityFunc
	metrics    Metrics
	generation uint64
	loading    bool
	err        error
	cancel     context.CancelFunc
	changed    chan struct{}
}

// NewFetcher создает fetcher; запросы живут не дольше baseCtx
func NewFetcher(baseCtx context.Context, fetch AvailabilityFunc, timeout time.Duration, metrics Metrics) *Fetcher {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Fetcher{
		baseCtx: baseCtx,
		timeout: timeout,
		fetch:   fetch,
		metrics: metrics,
		changed: make(chan struct{}),
	}
}

// Fetch выпускает новый запрос и возвращает его поколение.
// deliver вызывается из отдельной горутины и обязан передать результат в Resolve
func (f *Fetcher) Fetch(req AvailabilityRequest, deliver func(AvailabilityResult)) uint64 {
	f.mu.Lock()
	f.supersedeLocked()
	f.loading = true
	gen := f.generation

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if f.timeout > 0 {
		ctx, cancel = context.WithTimeout(f.baseCtx, f.timeout)
	} else {
		ctx, cancel = context.WithCancel(f.baseCtx)
	}
	f.cancel = cancel
	f.notifyLocked()
	f.mu.Unlock()

	f.metrics.AvailabilityFetchIssued()

	go func() {
		defer cancel()
		slots, err := f.fetch(ctx, req)
		deliver(AvailabilityResult{
			Generation: gen,
			Request:    req,
			Slots:      slots,
			Err:        err,
		})
	}()

	return gen
}

// Resolve принимает результат, если он относится к текущему поколению
func (f *Fetcher) Resolve(res AvailabilityResult) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if res.Generation != f.generation || !f.loading {
		f.metrics.AvailabilityFetchDiscarded()
		return false
	}

	f.loading = false
	f.err = res.Err
	f.cancel = nil
	f.notifyLocked()

	if res.Err != nil {
		f.metrics.AvailabilityFetchFailed()
	} else {
		f.metrics.AvailabilityFetchApplied()
	}
	return true
}

// Invalidate отбрасывает текущий запрос без выпуска нового (входные данные неполные)
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supersedeLocked()
	f.notifyLocked()
}

// Generation текущее поколение
func (f *Fetcher) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

// Loading true, пока запрос текущего поколения не завершился
func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Err ошибка последнего принятого запроса
func (f *Fetcher) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Wait блокируется, пока запрос текущего поколения не завершится
func (f *Fetcher) Wait(ctx context.Context) error {
	for {
		f.mu.Lock()
		if !f.loading {
			f.mu.Unlock()
			return nil
		}
		ch := f.changed
		f.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (f *Fetcher) supersedeLocked() {
	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.loading = false
	f.err = nil
}

// notifyLocked будит всех, кто ждет в Wait
func (f *Fetcher) notifyLocked() {
	close(f.changed)
	f.changed = make(chan struct{})
}
