package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

type startAssessmentRequest struct {
	SessionType domain.AssessmentType `json:"session_type"`
}

type assessmentListResponse struct {
	Assessments []domain.AssessmentSession `json:"assessments"`
	Count       int                        `json:"count"`
	Page        int                        `json:"page"`
	Limit       int                        `json:"limit"`
}

// StartAssessmentHandler opens a new assessment session. The body is optional.
func (s *Server) StartAssessmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var req startAssessmentRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(w, r, err, nil)
				return
			}
		}
		out, err := s.Assess.Start(r.Context(), uid, req.SessionType)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// SaveAnswerHandler stores an answer on an open session.
func (s *Server) SaveAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var a domain.AssessmentAnswer
		if err := decodeJSON(w, r, &a); err != nil {
			writeError(w, r, err, nil)
			return
		}
		out, err := s.Assess.SaveAnswer(r.Context(), uid, chi.URLParam(r, "id"), a)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// CompleteAssessmentHandler closes a session. The body is optional.
func (s *Server) CompleteAssessmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var c domain.AssessmentCompletion
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &c); err != nil {
				writeError(w, r, err, nil)
				return
			}
		}
		out, err := s.Assess.Complete(r.Context(), uid, chi.URLParam(r, "id"), c)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetAssessmentHandler returns one session with its answers.
func (s *Server) GetAssessmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		out, err := s.Assess.Get(r.Context(), uid, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ListAssessmentsHandler lists a user's sessions newest first.
func (s *Server) ListAssessmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		page, limit, status, kind := q.Get("page"), q.Get("limit"), q.Get("status"), q.Get("session_type")
		res := ValidatePagination(page, limit)
		if fr := ValidateAssessmentFilter(status, kind); !fr.Valid {
			res.Valid = false
			res.Errors = append(res.Errors, fr.Errors...)
		}
		if !res.Valid {
			writeError(w, r, fmt.Errorf("%w: invalid query parameters", domain.ErrValidation), res.Errors)
			return
		}
		lim, offset, pageNum := parsePagination(page, limit)
		out, err := s.Assess.List(r.Context(), uid, domain.AssessmentFilter{
			Status: domain.AssessmentStatus(status),
			Type:   domain.AssessmentType(kind),
			Limit:  lim,
			Offset: offset,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if out == nil {
			out = []domain.AssessmentSession{}
		}
		writeJSON(w, http.StatusOK, assessmentListResponse{Assessments: out, Count: len(out), Page: pageNum, Limit: lim})
	}
}

// AssessmentStatisticsHandler returns session counts, the average duration
// and the most recent session.
func (s *Server) AssessmentStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		stats, err := s.Assess.Statistics(r.Context(), uid)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
