package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sgsw/ideenboard/internal/authflow"
	"github.com/sgsw/ideenboard/internal/dataverse"
	"github.com/sgsw/ideenboard/internal/ideas"
	"github.com/sgsw/ideenboard/internal/meetings"
)

func (s *server) handleHealth() http.HandlerFunc {
	type healthResponse struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: Version})
	}
}

func (s *server) handleWhoAmI() http.HandlerFunc {
	type whoAmIResponse struct {
		UserID         string `json:"UserId"`
		BusinessUnitID string `json:"BusinessUnitId"`
		OrganizationID string `json:"OrganizationId"`
		FullName       string `json:"FullName"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		who, err := s.dataverse.WhoAmI(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		resp := whoAmIResponse{
			UserID:         who.UserID,
			BusinessUnitID: who.BusinessUnitID,
			OrganizationID: who.OrganizationID,
		}

		// The display name is decoration, a failed lookup must not fail
		// the connectivity check.
		var user struct {
			FullName string `json:"fullname"`
		}
		endpoint := "/systemusers(" + who.UserID + ")?$select=fullname,internalemailaddress"
		if err := s.dataverse.GetJSON(r.Context(), endpoint, &user); err != nil {
			s.logger.Warn().Err(err).Msg("loading user display name")
		} else {
			resp.FullName = user.FullName
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service and Dataverse errors onto HTTP statuses.
// Upstream API errors keep their original status code.
func (s *server) writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *dataverse.APIError

	switch {
	case errors.Is(err, authflow.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, authflow.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, ideas.ErrNameRequired),
		errors.Is(err, ideas.ErrReviewIncomplete),
		errors.Is(err, ideas.ErrInvalidStatus),
		errors.Is(err, meetings.ErrDateRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ideas.ErrNotEditable):
		writeError(w, http.StatusForbidden, err.Error())
	case dataverse.IsNotFound(err):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.As(err, &apiErr):
		writeError(w, apiErr.StatusCode, apiErr.Message)
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
