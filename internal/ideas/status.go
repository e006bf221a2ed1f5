package ideas

// Lifecycle status picklist values of cr6df_lifecyclestatus.
const (
	StatusSubmitted         = 562520000 // eingereicht
	StatusQualityCheck      = 562520001 // Idee in Qualitätsprüfung
	StatusSentBackToIdeator = 562520002 // Idee zur Überarbeitung an Ideengeber
	StatusApproved          = 562520003 // Genehmigt
	StatusRejected          = 562520004 // Abgelehnt
	StatusPresentedToBoard  = 562520005 // Idee wird ITOT-Board vorgestellt
	StatusInPortfolio       = 562520006 // Idee in Projektportfolio aufgenommen
	StatusInQuarterPlan     = 562520007 // Idee in Quartalsplanung aufgenommen
	StatusInWeekPlan        = 562520008 // Idee in Wochenplanung aufgenommen
	StatusInDetailAnalysis  = 562520009 // Idee in Detailanalyse
	StatusInProgress        = 562520010 // In Umsetzung
	StatusCompleted         = 562520011 // Abgeschlossen
)

// Phase is one of the four stages of the idea-to-solution process.
type Phase string

const (
	PhaseInitialization Phase = "Initialisierung"
	PhaseAnalysis       Phase = "Analyse & Bewertung"
	PhasePlanning       Phase = "Planung"
	PhaseExecution      Phase = "Umsetzung"
)

type statusEntry struct {
	label string
	phase Phase
}

var statusMap = map[int]statusEntry{
	StatusSubmitted:         {"eingereicht", PhaseInitialization},
	StatusQualityCheck:      {"Idee in Qualitätsprüfung", PhaseInitialization},
	StatusSentBackToIdeator: {"Idee zur Überarbeitung an Ideengeber", PhaseInitialization},
	StatusInDetailAnalysis:  {"Idee in Detailanalyse", PhaseAnalysis},
	StatusApproved:          {"Genehmigt", PhaseAnalysis},
	StatusRejected:          {"Abgelehnt", PhaseAnalysis},
	StatusPresentedToBoard:  {"Idee wird ITOT-Board vorgestellt", PhaseAnalysis},
	StatusInPortfolio:       {"Idee in Projektportfolio aufgenommen", PhasePlanning},
	StatusInQuarterPlan:     {"Idee in Quartalsplanung aufgenommen", PhasePlanning},
	StatusInWeekPlan:        {"Idee in Wochenplanung aufgenommen", PhasePlanning},
	StatusInProgress:        {"In Umsetzung", PhaseExecution},
	StatusCompleted:         {"Abgeschlossen", PhaseExecution},
}

// ValidStatus reports whether code is a known lifecycle status value.
func ValidStatus(code int) bool {
	_, ok := statusMap[code]
	return ok
}

// StatusLabel returns the display label for a lifecycle status value, or
// "Unbekannt" for codes outside the picklist.
func StatusLabel(code int) string {
	if e, ok := statusMap[code]; ok {
		return e.label
	}
	return "Unbekannt"
}

// PhaseForStatus returns the process phase a status belongs to. The second
// result is false for unknown codes.
func PhaseForStatus(code int) (Phase, bool) {
	e, ok := statusMap[code]
	return e.phase, ok
}
