package ideas

import "testing"

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{StatusSubmitted, "eingereicht"},
		{StatusPresentedToBoard, "Idee wird ITOT-Board vorgestellt"},
		{StatusCompleted, "Abgeschlossen"},
		{0, "Unbekannt"},
		{562519999, "Unbekannt"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.code); got != tt.want {
			t.Errorf("StatusLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestPhaseForStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantPhase Phase
		wantOK    bool
	}{
		{StatusSubmitted, PhaseInitialization, true},
		{StatusSentBackToIdeator, PhaseInitialization, true},
		{StatusInDetailAnalysis, PhaseAnalysis, true},
		{StatusPresentedToBoard, PhaseAnalysis, true},
		{StatusInWeekPlan, PhasePlanning, true},
		{StatusInProgress, PhaseExecution, true},
		{999, "", false},
	}
	for _, tt := range tests {
		phase, ok := PhaseForStatus(tt.code)
		if phase != tt.wantPhase || ok != tt.wantOK {
			t.Errorf("PhaseForStatus(%d) = (%q, %v), want (%q, %v)", tt.code, phase, ok, tt.wantPhase, tt.wantOK)
		}
	}
}

func TestValidStatusCoversWholePicklist(t *testing.T) {
	for code := StatusSubmitted; code <= StatusCompleted; code++ {
		if !ValidStatus(code) {
			t.Errorf("ValidStatus(%d) = false, want true", code)
		}
	}
	if ValidStatus(StatusCompleted + 1) {
		t.Error("ValidStatus accepted a code past the picklist")
	}
}
