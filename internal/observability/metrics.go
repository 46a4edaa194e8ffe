package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry; every method is safe on a nil receiver so
// callers can run without metrics wired.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	analyzerRequests *prometheus.CounterVec
	analyzerLatency  *prometheus.HistogramVec
	analyzerFallback *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec

	confidenceScore prometheus.Histogram
	reviewRequired  *prometheus.CounterVec
	uncertaintyFlag *prometheus.CounterVec

	complianceChecks *prometheus.CounterVec
	complianceScore  prometheus.Histogram
	autoFixes        *prometheus.CounterVec

	generations      *prometheus.CounterVec
	batchItems       *prometheus.CounterVec
	analyticsRefresh *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "click_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "click_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		analyzerRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_analyzer_requests_total",
			Help: "Analyzer calls by provider/outcome.",
		}, []string{"provider", "outcome"}),
		analyzerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "click_analyzer_duration_seconds",
			Help:    "Analyzer call latency in seconds by provider/outcome.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider", "outcome"}),
		analyzerFallback: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_analyzer_fallback_total",
			Help: "Analyses that used the neutral default, by reason.",
		}, []string{"reason"}),
		breakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "click_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		}, []string{"name"}),
		confidenceScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "click_confidence_overall",
			Help:    "Overall confidence of persisted analyses.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		reviewRequired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_confidence_review_total",
			Help: "Persisted analyses by human-review decision.",
		}, []string{"needs_review"}),
		uncertaintyFlag: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_uncertainty_flags_total",
			Help: "Uncertainty flags raised by type/severity.",
		}, []string{"type", "severity"}),
		complianceChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_compliance_checks_total",
			Help: "Compliance checks by outcome.",
		}, []string{"outcome"}),
		complianceScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "click_compliance_score",
			Help:    "Compliance score distribution.",
			Buckets: []float64{0, 20, 40, 60, 80, 90, 95, 100},
		}),
		autoFixes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_autofix_total",
			Help: "Auto-fix runs by whether content changed.",
		}, []string{"changed"}),
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_template_generations_total",
			Help: "Template generations by outcome.",
		}, []string{"outcome"}),
		batchItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_batch_items_total",
			Help: "Batch analysis items by outcome.",
		}, []string{"outcome"}),
		analyticsRefresh: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_analytics_refresh_total",
			Help: "Scheduled template analytics refreshes by outcome.",
		}, []string{"outcome"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "click_cache_lookups_total",
			Help: "Cache lookups by kind/result.",
		}, []string{"kind", "result"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) DecInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ObserveAnalyzer(provider, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.analyzerRequests.WithLabelValues(provider, outcome).Inc()
	m.analyzerLatency.WithLabelValues(provider, outcome).Observe(dur.Seconds())
}

func (m *Metrics) IncAnalyzerFallback(reason string) {
	if m == nil {
		return
	}
	m.analyzerFallback.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) ObserveConfidence(overall int, needsReview bool, flags map[string]string) {
	if m == nil {
		return
	}
	m.confidenceScore.Observe(float64(overall))
	m.reviewRequired.WithLabelValues(strconv.FormatBool(needsReview)).Inc()
	for typ, sev := range flags {
		m.uncertaintyFlag.WithLabelValues(typ, sev).Inc()
	}
}

func (m *Metrics) ObserveCompliance(compliant bool, score int) {
	if m == nil {
		return
	}
	outcome := "non_compliant"
	if compliant {
		outcome = "compliant"
	}
	m.complianceChecks.WithLabelValues(outcome).Inc()
	m.complianceScore.Observe(float64(score))
}

func (m *Metrics) IncAutoFix(changed bool) {
	if m == nil {
		return
	}
	m.autoFixes.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

func (m *Metrics) IncGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncBatchItem(outcome string) {
	if m == nil {
		return
	}
	m.batchItems.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncAnalyticsRefresh(outcome string) {
	if m == nil {
		return
	}
	m.analyticsRefresh.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncCacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}
