package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/dataverse"
)

type staticTokens struct{}

func (staticTokens) ValidToken(ctx context.Context) (string, error) { return "tok", nil }

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := dataverse.NewClient(srv.URL, staticTokens{}, zerolog.Nop())
	return NewService(client, zerolog.Nop())
}

// serveRecord answers any GET with the given record and records PATCH
// bodies for inspection.
func serveRecord(t *testing.T, rec Record, patched *map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(rec)
		case http.MethodPatch:
			if patched == nil {
				t.Error("unexpected PATCH")
				return
			}
			if err := json.NewDecoder(r.Body).Decode(patched); err != nil {
				t.Errorf("decoding patch body: %v", err)
			}
			_ = json.NewEncoder(w).Encode(rec)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}
}

func TestCreateRequiresName(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the API without a name")
	})

	for _, input := range []map[string]any{
		{},
		{"cr6df_name": ""},
		{"cr6df_beschreibung": "nur eine Beschreibung"},
	} {
		if _, err := s.Create(context.Background(), input); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Create(%v) error = %v, want ErrNameRequired", input, err)
		}
	}
}

func TestCreateFiltersInput(t *testing.T) {
	var got map[string]any
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Record{ID: "idea-1", Name: "Neue Idee"})
	})

	_, err := s.Create(context.Background(), map[string]any{
		"cr6df_name":            "Neue Idee",
		"cr6df_beschreibung":    "",            // empty, must be dropped
		"cr6df_lifecyclestatus": 562520000,     // writable, kept
		"cr6df_newcolumn":       "nicht dabei", // unknown, must be dropped
		"ownerid":               "x",           // unknown, must be dropped
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := map[string]any{
		"cr6df_name":            "Neue Idee",
		"cr6df_lifecyclestatus": float64(562520000),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestListQueries(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("$orderby"); got != "createdon desc" {
			t.Errorf("$orderby = %q", got)
		}
		if got := q.Get("$filter"); got != "cr6df_lifecyclestatus eq 562520005" {
			t.Errorf("$filter = %q", got)
		}
		if got := q.Get("$select"); got == "" {
			t.Error("$select missing")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"value": []Record{{ID: "idea-1"}}})
	})

	recs, err := s.ListByStatus(context.Background(), StatusPresentedToBoard)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "idea-1" {
		t.Errorf("ListByStatus() = %+v", recs)
	}
}

func TestSearchByNameEscapesQuotes(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("$filter"); got != "contains(cr6df_name, 'O''Brien')" {
			t.Errorf("$filter = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"value": []Record{}})
	})

	if _, err := s.SearchByName(context.Background(), "O'Brien"); err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
}

func TestUpdateReviewGuard(t *testing.T) {
	tests := []struct {
		name    string
		status  *int
		wantErr error
	}{
		{name: "presented to board", status: intPtr(StatusPresentedToBoard)},
		{name: "already approved", status: intPtr(StatusApproved), wantErr: ErrNotEditable},
		{name: "no status", status: nil, wantErr: ErrNotEditable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patched map[string]any
			s := newTestService(t, serveRecord(t, Record{ID: "idea-1", LifecycleStatus: tt.status}, &patched))

			_, err := s.UpdateReview(context.Background(), "idea-1", Review{
				Complexity:  562520001,
				Criticality: 562520002,
				Rationale:   "Gute Idee mit klarem Nutzen.",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateReview() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if patched != nil {
					t.Errorf("record patched despite guard: %v", patched)
				}
				return
			}
			want := map[string]any{
				"cr6df_komplexitaet":          float64(562520001),
				"cr6df_kritikalitaet":         float64(562520002),
				"cr6df_itotboard_begruendung": "Gute Idee mit klarem Nutzen.",
			}
			if diff := cmp.Diff(want, patched); diff != "" {
				t.Errorf("patch payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	complete := Record{
		ID:              "idea-1",
		LifecycleStatus: intPtr(StatusPresentedToBoard),
		Complexity:      intPtr(562520001),
		Criticality:     intPtr(562520000),
		BoardRationale:  "Begründung liegt vor.",
	}

	tests := []struct {
		name      string
		rec       Record
		newStatus int
		wantErr   error
	}{
		{name: "approve", rec: complete, newStatus: StatusApproved},
		{name: "reject", rec: complete, newStatus: StatusRejected},
		{
			name:      "unknown status code",
			rec:       complete,
			newStatus: 999,
			wantErr:   ErrInvalidStatus,
		},
		{
			name: "not presented to board",
			rec: Record{
				ID:              "idea-1",
				LifecycleStatus: intPtr(StatusSubmitted),
			},
			newStatus: StatusApproved,
			wantErr:   ErrNotEditable,
		},
		{
			name: "review incomplete",
			rec: Record{
				ID:              "idea-1",
				LifecycleStatus: intPtr(StatusPresentedToBoard),
				Complexity:      intPtr(562520001),
			},
			newStatus: StatusApproved,
			wantErr:   ErrReviewIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patched map[string]any
			s := newTestService(t, serveRecord(t, tt.rec, &patched))

			_, err := s.UpdateStatus(context.Background(), "idea-1", tt.newStatus)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if patched != nil {
					t.Errorf("record patched despite guard: %v", patched)
				}
				return
			}
			want := map[string]any{"cr6df_lifecyclestatus": float64(tt.newStatus)}
			if diff := cmp.Diff(want, patched); diff != "" {
				t.Errorf("patch payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssignMeeting(t *testing.T) {
	tests := []struct {
		name      string
		meetingID string
		want      any
	}{
		{name: "assign", meetingID: "meet-1", want: "/cr6df_itotboardsitzungs(meet-1)"},
		{name: "unassign", meetingID: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patched map[string]any
			s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPatch {
					t.Errorf("method = %s", r.Method)
				}
				if got := r.URL.Path; got != "/api/data/v9.2/"+EntitySet+"(idea-1)" {
					t.Errorf("path = %q", got)
				}
				if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
					t.Errorf("decoding body: %v", err)
				}
				_ = json.NewEncoder(w).Encode(Record{ID: "idea-1"})
			})

			if err := s.AssignMeeting(context.Background(), "idea-1", tt.meetingID); err != nil {
				t.Fatalf("AssignMeeting() error = %v", err)
			}
			got, ok := patched["cr6df_itotBoardSitzung@odata.bind"]
			if !ok {
				t.Fatalf("bind key missing in payload %v", patched)
			}
			if got != tt.want {
				t.Errorf("bind value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckTable(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			wantPath := "/api/data/v9.2/EntityDefinitions(LogicalName='" + LogicalName + "')"
			if got := r.URL.Path; got != wantPath {
				t.Errorf("path = %q, want %q", got, wantPath)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"EntitySetName": EntitySet,
				"DisplayName": map[string]any{
					"UserLocalizedLabel": map[string]string{"Label": "Digitalisierungsvorhaben"},
				},
			})
		})

		info, err := s.CheckTable(context.Background())
		if err != nil {
			t.Fatalf("CheckTable() error = %v", err)
		}
		if !info.Exists || info.DisplayName != "Digitalisierungsvorhaben" {
			t.Errorf("CheckTable() = %+v", info)
		}
	})

	t.Run("missing table", func(t *testing.T) {
		s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"entity does not exist"}}`))
		})

		info, err := s.CheckTable(context.Background())
		if err != nil {
			t.Fatalf("CheckTable() error = %v", err)
		}
		if info.Exists {
			t.Error("Exists = true, want false")
		}
		if info.EntitySetName != EntitySet {
			t.Errorf("EntitySetName = %q", info.EntitySetName)
		}
	})
}
