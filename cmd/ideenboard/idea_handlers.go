package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sgsw/ideenboard/internal/ideas"
)

type listEnvelope[T any] struct {
	Value []T `json:"value"`
}

// handleListIdeas lists all ideas, optionally filtered by lifecycle status
// or a name fragment.
func (s *server) handleListIdeas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			records []ideas.Record
			err     error
		)
		switch {
		case r.URL.Query().Get("status") != "":
			var status int
			status, err = strconv.Atoi(r.URL.Query().Get("status"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "status must be a number")
				return
			}
			records, err = s.ideas.ListByStatus(r.Context(), status)
		case r.URL.Query().Get("search") != "":
			records, err = s.ideas.SearchByName(r.Context(), r.URL.Query().Get("search"))
		default:
			records, err = s.ideas.List(r.Context())
		}
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if records == nil {
			records = []ideas.Record{}
		}
		writeJSON(w, http.StatusOK, listEnvelope[ideas.Record]{Value: records})
	}
}

func (s *server) handleGetIdea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.ideas.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *server) handleCreateIdea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input map[string]any
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		record, err := s.ideas.Create(r.Context(), input)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func (s *server) handleUpdateIdea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input map[string]any
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		record, err := s.ideas.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *server) handleDeleteIdea() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.ideas.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// handleIdeaReview stores the board assessment of an idea.
func (s *server) handleIdeaReview() http.HandlerFunc {
	type reviewRequest struct {
		Complexity  int    `json:"complexity" validate:"required"`
		Criticality int    `json:"criticality" validate:"required"`
		Rationale   string `json:"rationale" validate:"required,min=10,max=2000"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				writeError(w, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
				return
			}
			writeError(w, http.StatusBadRequest, "validation failed")
			return
		}

		record, err := s.ideas.UpdateReview(r.Context(), chi.URLParam(r, "id"), ideas.Review{
			Complexity:  req.Complexity,
			Criticality: req.Criticality,
			Rationale:   req.Rationale,
		})
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

// handleIdeaStatus closes out the board stage by moving the idea to a new
// lifecycle status.
func (s *server) handleIdeaStatus() http.HandlerFunc {
	type statusRequest struct {
		Status int `json:"status" validate:"required"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}

		record, err := s.ideas.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

// handleIdeasSetup probes the environment metadata for the ideas table.
func (s *server) handleIdeasSetup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := s.ideas.CheckTable(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}
