// Package chat maintains the per-citizen conversation with the
// municipal assistant and mediates turns with the language model.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/ayeco/segnalago/internal/attachment"
	"github.com/ayeco/segnalago/internal/vlm"
)

// SystemInstruction is the fixed first message of every session. It is
// never removed or reordered.
const SystemInstruction = "Sei un assistente comunale che aiuta i cittadini con informazioni e segnalazioni. Rispondi in italiano."

// RedirectReply is the canned answer for turns that look like a
// report request; those turns never reach the model.
const RedirectReply = "Per effettuare una segnalazione, vai alla scheda 'Valutazione Rischio' ⚠️."

// redirectKeywords drive the report-intent guard. This is a plain
// case-insensitive substring match, not a classifier.
var redirectKeywords = []string{"segnalazione", "rischio", "pericolo"}

var (
	// ErrNoUserTurn is returned by RequestReply when no user message
	// has been appended since the last assistant reply.
	ErrNoUserTurn = errors.New("no pending user turn")

	// ErrBusy is returned when RequestReply is called while a model
	// call for this session is already in flight.
	ErrBusy = errors.New("session is awaiting a model reply")
)

// State tracks where a session is in its turn cycle. There is no
// terminal state; a session lives for the citizen's whole visit.
type State int

const (
	StateIdle State = iota
	StateAwaitingModel
)

// Session holds the ordered message history for one citizen. It is
// owned by a single interaction at a time and is not safe for
// concurrent use.
type Session struct {
	model    vlm.Generator
	state    State
	messages []*schema.Message
}

// NewSession creates a session seeded with the system instruction.
func NewSession(model vlm.Generator) *Session {
	return &Session{
		model:    model,
		messages: []*schema.Message{schema.SystemMessage(SystemInstruction)},
	}
}

// State returns the current turn-cycle state.
func (s *Session) State() State { return s.state }

// Len returns the number of messages in the history, the system
// instruction included.
func (s *Session) Len() int { return len(s.messages) }

// Messages returns a copy of the history slice. The messages
// themselves are shared; callers must not mutate them.
func (s *Session) Messages() []*schema.Message {
	out := make([]*schema.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// AppendUserTurn records a user message, multimodal when an image is
// attached. It never invokes the model.
func (s *Session) AppendUserTurn(text string, img *attachment.Image) {
	s.messages = append(s.messages, vlm.UserMessage(text, img))
}

// RequestReply produces the assistant turn for the latest user
// message. If the user text matches the report-intent keywords the
// canned redirect is appended instead and the model is not called.
// Otherwise the full history goes to the model; on success the reply
// is appended and returned, on failure a *vlm.ModelCallError is
// returned and the history is left exactly as before the call, so the
// turn can be replayed.
func (s *Session) RequestReply(ctx context.Context) (*schema.Message, error) {
	if s.state == StateAwaitingModel {
		return nil, ErrBusy
	}

	userText, ok := s.latestUserText()
	if !ok {
		return nil, ErrNoUserTurn
	}

	if wantsReportRedirect(userText) {
		reply := schema.AssistantMessage(RedirectReply, nil)
		s.messages = append(s.messages, reply)
		return reply, nil
	}

	s.state = StateAwaitingModel
	defer func() { s.state = StateIdle }()

	reply, err := s.model.Generate(ctx, s.Messages())
	if err != nil {
		return nil, &vlm.ModelCallError{Err: err}
	}

	s.messages = append(s.messages, reply)
	return reply, nil
}

// latestUserText returns the text of the most recent user message,
// provided it arrived after the last assistant reply.
func (s *Session) latestUserText() (string, bool) {
	for i := len(s.messages) - 1; i > 0; i-- {
		switch s.messages[i].Role {
		case schema.User:
			return vlm.MessageText(s.messages[i]), true
		case schema.Assistant:
			return "", false
		}
	}
	return "", false
}

func wantsReportRedirect(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range redirectKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
