package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-career-advisor/internal/config"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/internal/usecase"
)

const maxBodyBytes = 1 << 20

// Server aggregates dependencies for HTTP handlers.
type Server struct {
	Cfg      config.Config
	Profiles usecase.ProfileService
	Recs     usecase.RecommendService
	Catalog  usecase.CatalogService
	Insights usecase.InsightsService
	Assess   usecase.AssessmentService

	DBCheck    func(context.Context) error
	RedisCheck func(context.Context) error
}

// NewServer constructs a Server with the provided dependencies.
func NewServer(cfg config.Config, profiles usecase.ProfileService, recs usecase.RecommendService, catalog usecase.CatalogService, insights usecase.InsightsService, assess usecase.AssessmentService, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:        cfg,
		Profiles:   profiles,
		Recs:       recs,
		Catalog:    catalog,
		Insights:   insights,
		Assess:     assess,
		DBCheck:    dbCheck,
		RedisCheck: redisCheck,
	}
}

type listResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
	Page            int                     `json:"page"`
	Limit           int                     `json:"limit"`
}

type careerPathsResponse struct {
	CareerPaths []domain.CareerPath `json:"career_paths"`
	Count       int                 `json:"count"`
}

// userID validates and returns the {userID} path parameter. It writes the
// error response itself and reports false when the id is unusable.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "userID"))
	if res := ValidateUserID(id); !res.Valid {
		writeError(w, r, fmt.Errorf("%w: invalid user id", domain.ErrInvalidArgument), res.Errors)
		return "", false
	}
	return id, true
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("%w: content type must be application/json", domain.ErrInvalidArgument)
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrInvalidArgument)
		}
		return fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidArgument)
	}
	return nil
}

// GetProfileHandler returns a user's profile.
func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		p, err := s.Profiles.Get(r.Context(), uid)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// PutProfileHandler creates or replaces a user's profile.
func (s *Server) PutProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var p domain.Profile
		if err := decodeJSON(w, r, &p); err != nil {
			writeError(w, r, err, nil)
			return
		}
		out, err := s.Profiles.Upsert(r.Context(), uid, p)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GenerateHandler runs the recommendation pipeline for a user.
func (s *Server) GenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		out, err := s.Recs.Generate(r.Context(), uid)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// ListRecommendationsHandler lists a user's recommendations newest first.
func (s *Server) ListRecommendationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		page, limit, kind := q.Get("page"), q.Get("limit"), q.Get("type")
		res := ValidatePagination(page, limit)
		if tr := ValidateRecommendationType(kind); !tr.Valid {
			res.Valid = false
			res.Errors = append(res.Errors, tr.Errors...)
		}
		if !res.Valid {
			writeError(w, r, fmt.Errorf("%w: invalid query parameters", domain.ErrValidation), res.Errors)
			return
		}
		lim, offset, pageNum := parsePagination(page, limit)
		recs, err := s.Recs.List(r.Context(), uid, domain.RecommendationFilter{Kind: domain.Kind(kind), Limit: lim, Offset: offset})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if recs == nil {
			recs = []domain.Recommendation{}
		}
		writeJSON(w, http.StatusOK, listResponse{Recommendations: recs, Count: len(recs), Page: pageNum, Limit: lim})
	}
}

// GetRecommendationHandler returns one recommendation.
func (s *Server) GetRecommendationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		rec, err := s.Recs.Get(r.Context(), uid, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// FeedbackHandler records a rating and/or bookmark.
func (s *Server) FeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var fb domain.Feedback
		if err := decodeJSON(w, r, &fb); err != nil {
			writeError(w, r, err, nil)
			return
		}
		rec, err := s.Recs.Feedback(r.Context(), uid, chi.URLParam(r, "id"), fb)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// MarkReadHandler flags a recommendation as read.
func (s *Server) MarkReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		if err := s.Recs.MarkRead(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Recommendation marked as read"})
	}
}

// CareerPathsHandler lists the career path catalog.
func (s *Server) CareerPathsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		industry := strings.TrimSpace(r.URL.Query().Get("industry"))
		if len(industry) > 100 {
			writeError(w, r, fmt.Errorf("%w: industry is too long", domain.ErrValidation), nil)
			return
		}
		paths, err := s.Catalog.List(r.Context(), industry)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if paths == nil {
			paths = []domain.CareerPath{}
		}
		writeJSON(w, http.StatusOK, careerPathsResponse{CareerPaths: paths, Count: len(paths)})
	}
}

// InsightsHandler returns the dashboard summary for a user.
func (s *Server) InsightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		in, err := s.Insights.Get(r.Context(), uid)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, in)
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler reports readiness of dependencies; nil checks are skipped.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		targets := []struct {
			name  string
			check func(context.Context) error
		}{
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
		}
		checks := make([]usecase.ReadinessCheck, 0, len(targets))
		allOK := true
		for _, d := range targets {
			if d.check == nil {
				continue
			}
			c := usecase.ReadinessCheck{Name: d.name, OK: true}
			if err := d.check(ctx); err != nil {
				c.OK = false
				c.Details = err.Error()
				allOK = false
			}
			checks = append(checks, c)
		}
		status := http.StatusOK
		if !allOK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{"ready": allOK, "checks": checks})
	}
}
