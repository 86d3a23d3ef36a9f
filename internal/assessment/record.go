// Package assessment defines the risk assessment record and the
// structured extraction that builds one from free-form model output.
package assessment

import (
	"fmt"
	"time"
)

// Category classifies a citizen report. The set is fixed; values are
// the Italian literals the model is prompted to use.
type Category string

const (
	CategoryPublicRoad     Category = "Strada Pubblica"
	CategoryUrbanGreenery  Category = "Verde Urbano"
	CategoryInfrastructure Category = "Edifici e Infrastrutture"
	CategoryOther          Category = "Altre criticità"
)

// Categories returns the enumerated category set in prompt order.
func Categories() []Category {
	return []Category{
		CategoryPublicRoad,
		CategoryUrbanGreenery,
		CategoryInfrastructure,
		CategoryOther,
	}
}

// Valid reports whether c is one of the enumerated literals.
func (c Category) Valid() bool {
	switch c {
	case CategoryPublicRoad, CategoryUrbanGreenery, CategoryInfrastructure, CategoryOther:
		return true
	}
	return false
}

// RiskLevel is the severity rating assigned to a reported issue.
type RiskLevel int

const (
	RiskLow    RiskLevel = 1
	RiskMedium RiskLevel = 2
	RiskHigh   RiskLevel = 3
)

// Valid reports whether l is within the closed set {1, 2, 3}.
func (l RiskLevel) Valid() bool {
	return l >= RiskLow && l <= RiskHigh
}

// Label returns the human-readable Italian label used in reports and
// chat output. The raw integer is never shown to citizens.
func (l RiskLevel) Label() string {
	switch l {
	case RiskLow:
		return "Basso"
	case RiskMedium:
		return "Medio"
	case RiskHigh:
		return "Alto"
	}
	return fmt.Sprintf("Sconosciuto (%d)", int(l))
}

// RiskAssessment is the validated record produced by Extract. It is
// immutable once constructed: a new assessment yields a new value,
// never an in-place mutation, so it is passed by value throughout.
type RiskAssessment struct {
	Timestamp      time.Time `json:"timestamp"`
	Location       string    `json:"location,omitempty"`
	Category       Category  `json:"categoria"`
	RiskLevel      RiskLevel `json:"livello_pericolosita"`
	Description    string    `json:"descrizione"`
	Recommendation string    `json:"raccomandazione"`
}

// Degraded reports whether the record was built from a payload missing
// its free-text fields. Degraded records are still usable but callers
// must present them as partial results, not successful assessments.
func (a RiskAssessment) Degraded() bool {
	return a.Description == "" || a.Recommendation == ""
}

// Validate checks the record invariants. Extract enforces these at
// construction time; consumers such as the report renderer call it
// again as a defensive check.
func (a RiskAssessment) Validate() error {
	if !a.RiskLevel.Valid() {
		return fmt.Errorf("risk level %d outside {1,2,3}", int(a.RiskLevel))
	}
	if !a.Category.Valid() {
		return fmt.Errorf("unknown category %q", string(a.Category))
	}
	if a.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is not set")
	}
	return nil
}
