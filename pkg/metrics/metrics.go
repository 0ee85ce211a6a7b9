package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекторы Prometheus сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	wizardsStarted     prometheus.Counter
	wizardTransitions  *prometheus.CounterVec
	wizardSubmissions  *prometheus.CounterVec
	geolocationLookups *prometheus.CounterVec
	requestStatuses    *prometheus.CounterVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec
}

// New создает и регистрирует коллекторы
// Если reg == nil, используется prometheus.DefaultRegisterer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	namespace := sanitize(serviceName)

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		wizardsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "started_total",
			Help:      "Booking wizards started",
		}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Wizard navigation attempts by step and outcome",
		}, []string{"action", "step", "outcome"}),
		wizardSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Wizard submissions by outcome",
		}, []string{"outcome"}),
		geolocationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "geolocation_lookups_total",
			Help:      "Geolocation lookups by outcome (applied, failed, stale)",
		}, []string{"outcome"}),
		requestStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "status_changes_total",
			Help:      "Appointment request status changes made by practitioners",
		}, []string{"status"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency by operation and status",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connections",
			Help:      "Database connection pool state",
		}, []string{"state"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.wizardsStarted,
		m.wizardTransitions,
		m.wizardSubmissions,
		m.geolocationLookups,
		m.requestStatuses,
		m.dbQueryDuration,
		m.dbConnections,
	)
	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// WizardStarted фиксирует старт мастера записи
func (m *Metrics) WizardStarted() {
	if m == nil {
		return
	}
	m.wizardsStarted.Inc()
}

// WizardTransition фиксирует попытку перехода (advance, retreat, restart)
func (m *Metrics) WizardTransition(action, step, outcome string) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(action, step, outcome).Inc()
}

// WizardSubmission фиксирует результат отправки заявки
func (m *Metrics) WizardSubmission(outcome string) {
	if m == nil {
		return
	}
	m.wizardSubmissions.WithLabelValues(outcome).Inc()
}

// GeolocationLookup фиксирует результат геолокации
func (m *Metrics) GeolocationLookup(outcome string) {
	if m == nil {
		return
	}
	m.geolocationLookups.WithLabelValues(outcome).Inc()
}

// RequestStatusChanged фиксирует смену статуса заявки врачом
func (m *Metrics) RequestStatusChanged(status string) {
	if m == nil {
		return
	}
	m.requestStatuses.WithLabelValues(status).Inc()
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, status).Observe(seconds)
}

// SetDBConnections фиксирует состояние connection pool
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

func sanitize(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
}
