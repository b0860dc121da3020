package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)
	AIPromptTokens = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ai_prompt_tokens",
			Help:    "Estimated prompt size in tokens",
			Buckets: []float64{250, 500, 750, 1000, 1500, 2000, 4000},
		},
	)
	AIBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ai_circuit_breaker_state",
			Help: "AI circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	RecommendationsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of recommendation drafts produced by source",
		},
		[]string{"source"},
	)
	RecommendationParseTierTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_parse_tier_total",
			Help: "Model responses interpreted per parser tier",
		},
		[]string{"tier"},
	)
	RecommendationFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallback_total",
			Help: "Pipeline runs that used the heuristic fallback by reason",
		},
		[]string{"reason"},
	)
	GenerationQuotaRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_quota_rejected_total",
			Help: "Generation requests rejected by the per-user quota",
		},
	)
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Generation events published by outcome",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to call repeatedly.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AIRequestsTotal,
			AIRequestDuration,
			AIPromptTokens,
			AIBreakerState,
			RecommendationsGeneratedTotal,
			RecommendationParseTierTotal,
			RecommendationFallbackTotal,
			GenerationQuotaRejectedTotal,
			EventsPublishedTotal,
		)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveAIRequest records one provider call.
func ObserveAIRequest(provider string, dur time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	AIRequestsTotal.WithLabelValues(provider, outcome).Inc()
	AIRequestDuration.WithLabelValues(provider).Observe(dur.Seconds())
}

// ObservePromptTokens records the estimated token size of a prompt.
func ObservePromptTokens(n int) {
	if n > 0 {
		AIPromptTokens.Observe(float64(n))
	}
}

// SetBreakerState publishes the numeric breaker state.
func SetBreakerState(name string, state float64) {
	AIBreakerState.WithLabelValues(name).Set(state)
}

// RecordGenerated counts drafts produced by a pipeline run.
func RecordGenerated(source string, n int) {
	RecommendationsGeneratedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordParseTier counts which parser tier interpreted a model response.
func RecordParseTier(tier string) {
	RecommendationParseTierTotal.WithLabelValues(tier).Inc()
}

// RecordFallback counts a fallback run with its cause.
func RecordFallback(reason string) {
	RecommendationFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordQuotaRejected counts a request denied by the generation quota.
func RecordQuotaRejected() { GenerationQuotaRejectedTotal.Inc() }

// RecordEventPublished counts a publish attempt.
func RecordEventPublished(err error) {
	if err != nil {
		EventsPublishedTotal.WithLabelValues("error").Inc()
		return
	}
	EventsPublishedTotal.WithLabelValues("success").Inc()
}
