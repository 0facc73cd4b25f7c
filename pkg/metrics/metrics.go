package metrics

import (
	"database/sql"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор метрик сервиса
// Все методы безопасны для nil-ресивера
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	backendCallsTotal   *prometheus.CounterVec
	backendCallDuration *prometheus.HistogramVec

	availabilityFetches *prometheus.CounterVec
	submissionsTotal    *prometheus.CounterVec
	activeForms         prometheus.Gauge

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
}

// New создает коллектор и регистрирует его в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает коллектор и регистрирует его в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests handled by the gateway",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Latency of HTTP requests handled by the gateway",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "backend_calls_total",
			Help:        "Total calls to the scheduling backend",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		backendCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "backend_call_duration_seconds",
			Help:        "Latency of calls to the scheduling backend",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
		availabilityFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_form_availability_fetches_total",
			Help:        "Availability fetches by result (issued, applied, discarded, failed)",
			ConstLabels: labels,
		}, []string{"result"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_form_submissions_total",
			Help:        "Create-appointment submissions by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		activeForms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "booking_form_active_forms",
			Help:        "Number of open booking forms",
			ConstLabels: labels,
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Latency of database queries",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the database pool",
			ConstLabels: labels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.backendCallsTotal,
		m.backendCallDuration,
		m.availabilityFetches,
		m.submissionsTotal,
		m.activeForms,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
	)

	return m
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveBackendCall учитывает вызов backend API. status = 0 означает сетевую ошибку
func (m *Metrics) ObserveBackendCall(operation string, status int, seconds float64) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendCallsTotal.WithLabelValues(operation, label).Inc()
	m.backendCallDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) AvailabilityFetchIssued() {
	m.observeFetch("issued")
}

func (m *Metrics) AvailabilityFetchApplied() {
	m.observeFetch("applied")
}

func (m *Metrics) AvailabilityFetchDiscarded() {
	m.observeFetch("discarded")
}

func (m *Metrics) AvailabilityFetchFailed() {
	m.observeFetch("failed")
}

func (m *Metrics) observeFetch(result string) {
	if m == nil {
		return
	}
	m.availabilityFetches.WithLabelValues(result).Inc()
}

// SubmissionObserved учитывает попытку создания записи
func (m *Metrics) SubmissionObserved(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// ActiveFormsSet выставляет количество открытых форм
func (m *Metrics) ActiveFormsSet(n int) {
	if m == nil {
		return
	}
	m.activeForms.Set(float64(n))
}

// ObserveDBQuery учитывает запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, status).Observe(seconds)
}

// SetDBPoolStats выставляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
}
