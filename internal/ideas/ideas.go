// Package ideas manages digitalization idea records in the Dataverse table
// cr6df_sgsw_digitalisierungsvorhaben.
package ideas

import "errors"

const (
	// EntitySet is the plural OData entity set name.
	EntitySet = "cr6df_sgsw_digitalisierungsvorhabens"
	// LogicalName is the singular metadata name of the table.
	LogicalName = "cr6df_sgsw_digitalisierungsvorhaben"
)

var (
	ErrNameRequired     = errors.New("cr6df_name is required")
	ErrNotEditable      = errors.New("idea is no longer editable")
	ErrReviewIncomplete = errors.New("review must be completed first")
	ErrInvalidStatus    = errors.New("unknown lifecycle status")
)

// Record mirrors a row of the ideas table. Optional picklists and numbers
// are pointers so absent values survive round trips.
type Record struct {
	ID          string `json:"cr6df_sgsw_digitalisierungsvorhabenid,omitempty"`
	Name        string `json:"cr6df_name,omitempty"`
	Description string `json:"cr6df_beschreibung,omitempty"`

	Type            *int `json:"cr6df_typ,omitempty"`
	LifecycleStatus *int `json:"cr6df_lifecyclestatus,omitempty"`
	Complexity      *int `json:"cr6df_komplexitaet,omitempty"`
	Criticality     *int `json:"cr6df_kritikalitaet,omitempty"`
	Priority        *int `json:"cr6df_prioritat,omitempty"`

	AnalysisPersonDays *float64 `json:"cr6df_detailanalyse_personentage,omitempty"`
	AnalysisResult     string   `json:"cr6df_detailanalyse_ergebnis,omitempty"`
	InitialRationale   string   `json:"cr6df_initalbewertung_begruendung,omitempty"`
	BoardRationale     string   `json:"cr6df_itotboard_begruendung,omitempty"`
	PIAPath            string   `json:"cr6df_pia_pfad,omitempty"`
	IsDuplicate        *bool    `json:"cr6df_istduplikat,omitempty"`

	RejectedAt     string `json:"cr6df_abgelehnt_am,omitempty"`
	CompletedAt    string `json:"cr6df_abgeschlossen_am,omitempty"`
	ApprovedAt     string `json:"cr6df_genehmigt_am,omitempty"`
	InRevisionAt   string `json:"cr6df_in_ueberarbeitung_am,omitempty"`
	PIACreatedAt   string `json:"cr6df_pia_erstellt_am,omitempty"`
	PlannedStartAt string `json:"cr6df_planung_geplanterstart,omitempty"`
	PlannedEndAt   string `json:"cr6df_planung_geplantesende,omitempty"`

	BoardMeetingID string `json:"_cr6df_itotboardsitzung_value,omitempty"`
	ResponsibleID  string `json:"_cr6df_verantwortlicher_value,omitempty"`
	IdeatorID      string `json:"_cr6df_ideengeber_value,omitempty"`
	SubscriberID   string `json:"_cr6df_abonnenten_value,omitempty"`

	CreatedOn  string `json:"createdon,omitempty"`
	ModifiedOn string `json:"modifiedon,omitempty"`
	StateCode  *int   `json:"statecode,omitempty"`
	StatusCode *int   `json:"statuscode,omitempty"`
}

// listSelect names every column the list and get calls ask for, so records
// come back complete regardless of column-level defaults.
var listSelect = []string{
	"cr6df_sgsw_digitalisierungsvorhabenid",
	"cr6df_name",
	"cr6df_beschreibung",
	"cr6df_typ",
	"cr6df_lifecyclestatus",
	"cr6df_komplexitaet",
	"cr6df_kritikalitaet",
	"cr6df_prioritat",
	"cr6df_detailanalyse_personentage",
	"cr6df_detailanalyse_ergebnis",
	"cr6df_initalbewertung_begruendung",
	"cr6df_itotboard_begruendung",
	"cr6df_pia_pfad",
	"cr6df_istduplikat",
	"cr6df_abgelehnt_am",
	"cr6df_abgeschlossen_am",
	"cr6df_genehmigt_am",
	"cr6df_in_ueberarbeitung_am",
	"cr6df_pia_erstellt_am",
	"cr6df_planung_geplanterstart",
	"cr6df_planung_geplantesende",
	"_cr6df_itotboardsitzung_value",
	"_cr6df_verantwortlicher_value",
	"_cr6df_ideengeber_value",
	"_cr6df_abonnenten_value",
	"createdon",
	"modifiedon",
	"statecode",
	"statuscode",
}

// writable lists the columns callers may set on create and update. Anything
// else in the input is dropped, lookups are handled separately via
// @odata.bind payloads.
var writable = map[string]struct{}{
	"cr6df_name":                        {},
	"cr6df_beschreibung":                {},
	"cr6df_pia_pfad":                    {},
	"cr6df_detailanalyse_ergebnis":      {},
	"cr6df_initalbewertung_begruendung": {},
	"cr6df_itotboard_begruendung":       {},
	"cr6df_detailanalyse_personentage":  {},
	"cr6df_typ":                         {},
	"cr6df_lifecyclestatus":             {},
	"cr6df_komplexitaet":                {},
	"cr6df_kritikalitaet":               {},
	"cr6df_prioritat":                   {},
	"cr6df_istduplikat":                 {},
	"cr6df_abgelehnt_am":                {},
	"cr6df_abgeschlossen_am":            {},
	"cr6df_genehmigt_am":                {},
	"cr6df_in_ueberarbeitung_am":        {},
	"cr6df_pia_erstellt_am":             {},
	"cr6df_planung_geplanterstart":      {},
	"cr6df_planung_geplantesende":       {},
}

// cleanInput keeps only writable columns with usable values. Empty strings
// and nils are dropped rather than sent as explicit nulls.
func cleanInput(input map[string]any) map[string]any {
	cleaned := make(map[string]any, len(input))
	for key, value := range input {
		if _, ok := writable[key]; !ok {
			continue
		}
		if value == nil || value == "" {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}
