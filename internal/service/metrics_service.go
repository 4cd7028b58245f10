package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the lifecycle
// engine: HTTP traffic plus domain counters for conflicts, audits and
// transitions.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	conflictTotal   *prometheus.CounterVec
	auditTotal      *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	conflictTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_conflicts_total",
		Help: "Schedule slot proposals rejected, by conflict dimension",
	}, []string{"dimension"})

	auditTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "completeness_audits_total",
		Help: "Completeness audits performed, by verdict",
	}, []string{"verdict"})

	transitionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "term_transitions_total",
		Help: "Term transition attempts, by outcome",
	}, []string{"outcome"})

	registry.MustRegister(requestDuration, requestTotal, conflictTotal, auditTotal, transitionTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		conflictTotal:   conflictTotal,
		auditTotal:      auditTotal,
		transitionTotal: transitionTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	if s == nil {
		return promhttp.Handler()
	}
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// IncScheduleConflict counts a rejected slot proposal.
func (s *MetricsService) IncScheduleConflict(dimension string) {
	if s == nil {
		return
	}
	s.conflictTotal.WithLabelValues(dimension).Inc()
}

// IncAudit counts an audit verdict.
func (s *MetricsService) IncAudit(allValid bool) {
	if s == nil {
		return
	}
	verdict := "incomplete"
	if allValid {
		verdict = "complete"
	}
	s.auditTotal.WithLabelValues(verdict).Inc()
}

// IncTransition counts a transition outcome.
func (s *MetricsService) IncTransition(outcome string) {
	if s == nil {
		return
	}
	s.transitionTotal.WithLabelValues(outcome).Inc()
}
