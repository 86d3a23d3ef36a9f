package assessment

import (
	"testing"
	"time"
)

func TestRiskLevelLabels(t *testing.T) {
	cases := map[RiskLevel]string{
		RiskLow:    "Basso",
		RiskMedium: "Medio",
		RiskHigh:   "Alto",
	}
	for level, want := range cases {
		if got := level.Label(); got != want {
			t.Errorf("Label(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("enumerated category %q reported invalid", c)
		}
	}
	if Category("Fognature").Valid() {
		t.Errorf("unknown category reported valid")
	}
	if Category("").Valid() {
		t.Errorf("empty category reported valid")
	}
}

func TestValidateRejectsBrokenRecords(t *testing.T) {
	good := RiskAssessment{
		Timestamp:      time.Now(),
		Category:       CategoryPublicRoad,
		RiskLevel:      RiskHigh,
		Description:    "Buca enorme",
		Recommendation: "Intervento urgente",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate on good record: %v", err)
	}

	bad := good
	bad.RiskLevel = 5
	if err := bad.Validate(); err == nil {
		t.Errorf("Validate accepted risk level 5")
	}

	bad = good
	bad.Category = "Parchi"
	if err := bad.Validate(); err == nil {
		t.Errorf("Validate accepted unknown category")
	}

	bad = good
	bad.Timestamp = time.Time{}
	if err := bad.Validate(); err == nil {
		t.Errorf("Validate accepted zero timestamp")
	}
}
