package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGetSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateSession(ctx, SessionRecord{ID: "s1", Channel: "cli"}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession returned nil for existing session")
	}
	if got.Status != StatusActive {
		t.Errorf("status = %q, want %q", got.Status, StatusActive)
	}
	if got.Channel != "cli" {
		t.Errorf("channel = %q, want cli", got.Channel)
	}
}

func TestGetSessionMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Errorf("GetSession = %+v, want nil for unknown id", got)
	}
}

func TestAppendMessageAssignsSequence(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateSession(ctx, SessionRecord{ID: "s1"}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	turns := []MessageRecord{
		{SessionID: "s1", Role: "system", Content: "istruzioni"},
		{SessionID: "s1", Role: "user", Content: "c'è una buca", HasImage: true},
		{SessionID: "s1", Role: "assistant", Content: "capito"},
	}
	for _, m := range turns {
		if err := store.AppendMessage(ctx, m); err != nil {
			t.Fatalf("AppendMessage(%s): %v", m.Role, err)
		}
	}

	msgs, err := store.ListMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, m := range msgs {
		if m.Seq != i+1 {
			t.Errorf("message %d seq = %d, want %d", i, m.Seq, i+1)
		}
		if m.Role != turns[i].Role {
			t.Errorf("message %d role = %q, want %q", i, m.Role, turns[i].Role)
		}
	}
	if !msgs[1].HasImage {
		t.Error("user message lost has_image flag")
	}
}

func TestAppendMessageValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.AppendMessage(ctx, MessageRecord{Role: "user"}); err == nil {
		t.Error("expected error for missing session id")
	}
	if err := store.AppendMessage(ctx, MessageRecord{SessionID: "s1"}); err == nil {
		t.Error("expected error for missing role")
	}
}

func TestEndSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateSession(ctx, SessionRecord{ID: "s1"}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := store.EndSession(ctx, "s1"); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Status != StatusEnded {
		t.Errorf("status = %q, want %q", got.Status, StatusEnded)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.CreateSession(ctx, SessionRecord{ID: id}); err != nil {
			t.Fatalf("CreateSession(%s): %v", id, err)
		}
	}

	sessions, err := store.ListSessions(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "c" || sessions[1].ID != "b" {
		t.Errorf("order = %s,%s, want c,b", sessions[0].ID, sessions[1].ID)
	}

	rest, err := store.ListSessions(ctx, sessions[1].RowID, 10)
	if err != nil {
		t.Fatalf("ListSessions(cursor): %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "a" {
		t.Errorf("cursor page = %+v, want single session a", rest)
	}
}
