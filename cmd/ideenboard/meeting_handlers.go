package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sgsw/ideenboard/internal/meetings"
)

func (s *server) handleListMeetings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.meetings.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if records == nil {
			records = []meetings.Meeting{}
		}
		writeJSON(w, http.StatusOK, listEnvelope[meetings.Meeting]{Value: records})
	}
}

func (s *server) handleGetMeeting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meeting, err := s.meetings.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, meeting)
	}
}

func (s *server) handleCreateMeeting() http.HandlerFunc {
	type createRequest struct {
		Date          string `json:"sitzungsdatum"`
		Protocol      string `json:"protokoll"`
		ParticipantID string `json:"teilnehmerId"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		meeting, err := s.meetings.Create(r.Context(), meetings.CreateInput{
			Date:          req.Date,
			Protocol:      req.Protocol,
			ParticipantID: req.ParticipantID,
		})
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, meeting)
	}
}

func (s *server) handleUpdateMeeting() http.HandlerFunc {
	type updateRequest struct {
		Date     *string `json:"sitzungsdatum"`
		Protocol *string `json:"protokoll"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		meeting, err := s.meetings.Update(r.Context(), chi.URLParam(r, "id"), meetings.UpdateInput{
			Date:     req.Date,
			Protocol: req.Protocol,
		})
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, meeting)
	}
}

func (s *server) handleDeleteMeeting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.meetings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// handleAssignMeeting links an idea to a meeting. A null meeting id clears
// the link.
func (s *server) handleAssignMeeting() http.HandlerFunc {
	type assignRequest struct {
		IdeaID    string  `json:"ideaId"`
		MeetingID *string `json:"sitzungId"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.IdeaID == "" {
			writeError(w, http.StatusBadRequest, "ideaId is required")
			return
		}
		meetingID := ""
		if req.MeetingID != nil {
			meetingID = *req.MeetingID
		}
		if err := s.ideas.AssignMeeting(r.Context(), req.IdeaID, meetingID); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
