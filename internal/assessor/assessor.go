// Package assessor runs the risk assessment pipeline: photo to model
// to validated record.
package assessor

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/ayeco/segnalago/internal/assessment"
	"github.com/ayeco/segnalago/internal/attachment"
	"github.com/ayeco/segnalago/internal/vlm"
)

// Assessor orchestrates a single assessment interaction. The model
// call is synchronous and blocks the interaction until it returns or
// the client times out; there is no retry logic here.
type Assessor struct {
	model vlm.Generator
	now   func() time.Time
}

func New(model vlm.Generator) *Assessor {
	return &Assessor{model: model, now: time.Now}
}

// Assess sends the photo to the vision-language model and extracts a
// validated record from its reply. location may be empty.
//
// A *vlm.ModelCallError means the model was unreachable; an
// *assessment.ExtractionError means it answered but no valid payload
// could be recovered, and carries the raw reply so the caller can
// surface it instead of a structured result.
func (a *Assessor) Assess(ctx context.Context, img *attachment.Image, location string) (assessment.RiskAssessment, error) {
	msgs := []*schema.Message{vlm.RiskAssessmentMessage(img)}

	reply, err := a.model.Generate(ctx, msgs)
	if err != nil {
		return assessment.RiskAssessment{}, &vlm.ModelCallError{Err: err}
	}

	return assessment.Extract(vlm.MessageText(reply), location, a.now())
}
