package main

import (
	"encoding/json"
	"net/http"
)

// handleAuthStatus reports whether a usable credential record exists and
// how long the access token is still valid.
func (s *server) handleAuthStatus() http.HandlerFunc {
	type statusResponse struct {
		Authenticated    bool  `json:"authenticated"`
		RemainingSeconds int64 `json:"remainingSeconds"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			Authenticated:    s.auth.IsAuthenticated(r.Context()),
			RemainingSeconds: s.auth.RemainingSeconds(r.Context()),
		})
	}
}

// handleLogin starts a device authorization and returns the user code the
// operator enters at the verification URL.
func (s *server) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization, err := s.auth.Initiate(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authorization)
	}
}

// handlePoll performs one poll of the token endpoint. The client repeats
// the call at the advertised interval until the status is terminal.
func (s *server) handlePoll() http.HandlerFunc {
	type pollRequest struct {
		DeviceCode string `json:"device_code"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req pollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceCode == "" {
			writeError(w, http.StatusBadRequest, "device_code is required")
			return
		}
		writeJSON(w, http.StatusOK, s.auth.PollOnce(r.Context(), req.DeviceCode))
	}
}

// handleLogout drops the credential record unconditionally.
func (s *server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context()); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
