// Package report renders a validated risk assessment into the PDF
// document offered to citizens for download.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ayeco/segnalago/internal/assessment"
)

const (
	title = "Report di Valutazione del Rischio"

	// MIMEType is the content type of the rendered artifact.
	MIMEType = "application/pdf"
)

// RenderError reports a required record field missing at render time.
// Extraction enforces the record invariants, so hitting this means a
// caller bypassed it; the failure is fatal to the render call only.
type RenderError struct {
	Field string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render report: required field %q is missing", e.Field)
}

// Filename returns the download filename for a report generated at t,
// following the report_rischio_<YYYYMMDD_HHMMSS>.pdf pattern.
func Filename(t time.Time) string {
	return fmt.Sprintf("report_rischio_%s.pdf", t.Format("20060102_150405"))
}

// line is one rendered row of the document body.
type line struct {
	text      string
	bold      bool
	multi     bool
	gapBefore float64
}

// lines lays out the document body in its fixed order. The risk level
// is always rendered as its label, never the raw integer, and the
// location row is omitted entirely when the record has none.
func lines(rec assessment.RiskAssessment) []line {
	out := []line{
		{text: "Data: " + rec.Timestamp.Format("2006-01-02 15:04:05"), bold: true},
	}
	if rec.Location != "" {
		out = append(out, line{text: "Localizzazione: " + rec.Location, bold: true})
	}
	out = append(out,
		line{text: "Categoria: " + string(rec.Category), bold: true},
		line{text: "Livello di Pericolosità: " + rec.RiskLevel.Label(), bold: true},
		line{text: "Descrizione:", bold: true, gapBefore: 5},
		line{text: rec.Description, multi: true},
		line{text: "Raccomandazione:", bold: true, gapBefore: 5},
		line{text: rec.Recommendation, multi: true},
	)
	return out
}

// Render writes the PDF report for rec to w. Output is deterministic:
// the document creation date is pinned to the record timestamp, so the
// same record always yields byte-identical output. The record is not
// mutated.
func Render(w io.Writer, rec assessment.RiskAssessment) error {
	if err := checkRequired(rec); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(rec.Timestamp)
	pdf.SetModificationDate(rec.Timestamp)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, ln := range lines(rec) {
		if ln.gapBefore > 0 {
			pdf.Ln(ln.gapBefore)
		}
		style := ""
		if ln.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 12)
		if ln.multi {
			pdf.MultiCell(0, 10, tr(ln.text), "", "L", false)
		} else {
			pdf.CellFormat(0, 10, tr(ln.text), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func checkRequired(rec assessment.RiskAssessment) error {
	switch {
	case !rec.Category.Valid():
		return &RenderError{Field: "categoria"}
	case !rec.RiskLevel.Valid():
		return &RenderError{Field: "livello_pericolosita"}
	case rec.Description == "":
		return &RenderError{Field: "descrizione"}
	case rec.Recommendation == "":
		return &RenderError{Field: "raccomandazione"}
	}
	return nil
}
