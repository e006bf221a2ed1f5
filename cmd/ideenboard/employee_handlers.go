package main

import (
	"net/http"

	"github.com/sgsw/ideenboard/internal/employees"
)

func (s *server) handleListEmployees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.employees.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if records == nil {
			records = []employees.Employee{}
		}
		writeJSON(w, http.StatusOK, listEnvelope[employees.Employee]{Value: records})
	}
}
