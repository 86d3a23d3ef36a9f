package vlm

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/ayeco/segnalago/internal/attachment"
)

func testImage(t *testing.T) *attachment.Image {
	t.Helper()
	img, err := attachment.FromBytes([]byte("\x89PNG\r\n\x1a\nfakedata"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return img
}

func TestRiskAssessmentMessageParts(t *testing.T) {
	msg := RiskAssessmentMessage(testImage(t))

	if msg.Role != schema.User {
		t.Fatalf("role = %q", msg.Role)
	}
	if len(msg.MultiContent) != 2 {
		t.Fatalf("got %d parts, want 2", len(msg.MultiContent))
	}
	if msg.MultiContent[0].Type != schema.ChatMessagePartTypeText {
		t.Errorf("first part is not text")
	}
	if !strings.Contains(msg.MultiContent[0].Text, "livello_pericolosita") {
		t.Errorf("prompt does not name the payload fields")
	}
	imagePart := msg.MultiContent[1]
	if imagePart.Type != schema.ChatMessagePartTypeImageURL {
		t.Fatalf("second part is not an image")
	}
	if !strings.HasPrefix(imagePart.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image URL is not a data URI: %q", imagePart.ImageURL.URL[:30])
	}
}

func TestUserMessagePlainAndMultimodal(t *testing.T) {
	plain := UserMessage("C'è un lampione spento", nil)
	if plain.Content != "C'è un lampione spento" || len(plain.MultiContent) != 0 {
		t.Fatalf("plain message malformed: %+v", plain)
	}

	multi := UserMessage("Guarda questa foto", testImage(t))
	if len(multi.MultiContent) != 2 {
		t.Fatalf("multimodal message has %d parts", len(multi.MultiContent))
	}
	if got := MessageText(multi); got != "Guarda questa foto" {
		t.Fatalf("MessageText = %q", got)
	}
}

func TestMessageTextNil(t *testing.T) {
	if MessageText(nil) != "" {
		t.Fatalf("MessageText(nil) not empty")
	}
}
