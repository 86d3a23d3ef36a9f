package assessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ayeco/segnalago/internal/assessment"
	"github.com/ayeco/segnalago/internal/attachment"
	"github.com/ayeco/segnalago/internal/vlm"
)

type fakeModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.received = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func testImage(t *testing.T) *attachment.Image {
	t.Helper()
	img, err := attachment.FromBytes([]byte("\xFF\xD8\xFF\xE0fakejpeg"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return img
}

func TestAssessBuildsRecordFromReply(t *testing.T) {
	fake := &fakeModel{
		reply: `Ecco la valutazione: {"livello_pericolosita": 3, "categoria": "Strada Pubblica", "descrizione": "Buca enorme", "raccomandazione": "Intervento urgente"} Grazie.`,
	}
	a := New(fake)
	fixed := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	rec, err := a.Assess(context.Background(), testImage(t), "Via Toledo")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if rec.RiskLevel != assessment.RiskHigh || rec.Category != assessment.CategoryPublicRoad {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Location != "Via Toledo" || !rec.Timestamp.Equal(fixed) {
		t.Fatalf("location/timestamp = %q / %v", rec.Location, rec.Timestamp)
	}

	if len(fake.received) != 1 {
		t.Fatalf("model received %d messages, want 1", len(fake.received))
	}
	if parts := fake.received[0].MultiContent; len(parts) != 2 {
		t.Fatalf("assessment turn has %d parts, want prompt + image", len(parts))
	}
}

func TestAssessModelFailure(t *testing.T) {
	fake := &fakeModel{err: errors.New("429 too many requests")}
	a := New(fake)

	_, err := a.Assess(context.Background(), testImage(t), "")
	var mErr *vlm.ModelCallError
	if !errors.As(err, &mErr) {
		t.Fatalf("err = %v, want *vlm.ModelCallError", err)
	}
}

func TestAssessExtractionFailureCarriesRawText(t *testing.T) {
	fake := &fakeModel{reply: "Mi dispiace, l'immagine è troppo sfocata per una valutazione."}
	a := New(fake)

	_, err := a.Assess(context.Background(), testImage(t), "")
	var xErr *assessment.ExtractionError
	if !errors.As(err, &xErr) {
		t.Fatalf("err = %v, want *assessment.ExtractionError", err)
	}
	if xErr.Raw != fake.reply {
		t.Fatalf("raw text = %q", xErr.Raw)
	}
	if !errors.Is(err, assessment.ErrNoPayload) {
		t.Fatalf("kind = %v, want ErrNoPayload", err)
	}
}
