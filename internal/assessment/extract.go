package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Extraction failure kinds. ErrNoPayload means the text contains no
// brace-delimited region at all; ErrInvalidPayload means a region was
// found but failed schema validation.
var (
	ErrNoPayload      = errors.New("no JSON payload found in model reply")
	ErrInvalidPayload = errors.New("JSON payload failed schema validation")
)

// ExtractionError wraps an extraction failure together with the raw
// model text, so callers can fall back to showing the reply verbatim.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract assessment: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// payload mirrors the JSON object the model is prompted to emit.
// Pointers distinguish absent fields from zero values.
type payload struct {
	RiskLevel      *int    `json:"livello_pericolosita"`
	Category       *string `json:"categoria"`
	Description    *string `json:"descrizione"`
	Recommendation *string `json:"raccomandazione"`
}

// Extract scans text for a brace-delimited JSON object and builds a
// validated RiskAssessment from it. The scan is greedy: leftmost '{'
// to rightmost '}'. Braces inside JSON strings are not handled
// specially; with a single payload object in the reply this does not
// matter, and the model is prompted to emit exactly one.
//
// Default-filling policy: an absent risk level defaults to RiskLow and
// an absent category to CategoryOther, while an explicitly present but
// out-of-range or unknown value is rejected. Absent description or
// recommendation become empty strings and flag the record as degraded.
//
// location and now are supplied by the caller, not parsed from text.
// Extract is a pure function over its inputs.
func Extract(text, location string, now time.Time) (RiskAssessment, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return RiskAssessment{}, &ExtractionError{Raw: text, Err: ErrNoPayload}
	}

	var p payload
	if err := json.Unmarshal([]byte(text[start:end+1]), &p); err != nil {
		return RiskAssessment{}, &ExtractionError{
			Raw: text,
			Err: fmt.Errorf("%w: %v", ErrInvalidPayload, err),
		}
	}

	rec := RiskAssessment{
		Timestamp: now,
		Location:  strings.TrimSpace(location),
		RiskLevel: RiskLow,
		Category:  CategoryOther,
	}

	if p.RiskLevel != nil {
		level := RiskLevel(*p.RiskLevel)
		if !level.Valid() {
			return RiskAssessment{}, &ExtractionError{
				Raw: text,
				Err: fmt.Errorf("%w: risk level %d outside {1,2,3}", ErrInvalidPayload, *p.RiskLevel),
			}
		}
		rec.RiskLevel = level
	}

	if p.Category != nil {
		cat := Category(strings.TrimSpace(*p.Category))
		if !cat.Valid() {
			return RiskAssessment{}, &ExtractionError{
				Raw: text,
				Err: fmt.Errorf("%w: unknown category %q", ErrInvalidPayload, *p.Category),
			}
		}
		rec.Category = cat
	}

	if p.Description != nil {
		rec.Description = strings.TrimSpace(*p.Description)
	}
	if p.Recommendation != nil {
		rec.Recommendation = strings.TrimSpace(*p.Recommendation)
	}

	return rec, nil
}
