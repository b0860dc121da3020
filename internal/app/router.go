// Package app wires HTTP routes and readiness checks for the server binary.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/ai-career-advisor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	rateLimit := cfg.RateLimitPerMin
	if rateLimit <= 0 {
		rateLimit = 60
	}

	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(timeout))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/v1", func(v1 chi.Router) {
		// Mutations are rate limited per client IP.
		v1.Group(func(wr chi.Router) {
			wr.Use(httprate.LimitByIP(rateLimit, time.Minute))
			wr.Put("/users/{userID}/profile", srv.PutProfileHandler())
			wr.Post("/users/{userID}/recommendations/generate", srv.GenerateHandler())
			wr.Patch("/users/{userID}/recommendations/{id}/feedback", srv.FeedbackHandler())
			wr.Post("/users/{userID}/recommendations/{id}/mark_read", srv.MarkReadHandler())
			wr.Post("/users/{userID}/assessments", srv.StartAssessmentHandler())
			wr.Post("/users/{userID}/assessments/{id}/answers", srv.SaveAnswerHandler())
			wr.Post("/users/{userID}/assessments/{id}/complete", srv.CompleteAssessmentHandler())
		})
		v1.Get("/users/{userID}/profile", srv.GetProfileHandler())
		v1.Get("/users/{userID}/recommendations", srv.ListRecommendationsHandler())
		v1.Get("/users/{userID}/recommendations/{id}", srv.GetRecommendationHandler())
		v1.Get("/users/{userID}/insights", srv.InsightsHandler())
		v1.Get("/users/{userID}/assessments", srv.ListAssessmentsHandler())
		v1.Get("/users/{userID}/assessments/statistics", srv.AssessmentStatisticsHandler())
		v1.Get("/users/{userID}/assessments/{id}", srv.GetAssessmentHandler())
		v1.Get("/career-paths", srv.CareerPathsHandler())
	})

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return httpserver.SecurityHeaders(r)
}
