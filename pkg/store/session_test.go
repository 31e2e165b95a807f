package store

import (
	"path/filepath"
	"testing"
)

func TestSessionUserIDIsStable(t *testing.T) {
	base := t.TempDir()
	s, err := OpenSession(base)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	first, err := s.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if !IsAnonymous(first) {
		t.Fatalf("expected anonymous id, got %q", first)
	}

	reopened, err := OpenSession(base)
	if err != nil {
		t.Fatalf("reopen session: %v", err)
	}
	second, err := reopened.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if first != second {
		t.Fatalf("user id changed across opens: %q vs %q", first, second)
	}
}

func TestSessionConversationRoundTrip(t *testing.T) {
	s, err := OpenSession(filepath.Join(t.TempDir(), "session"))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if got := s.Conversation(); got != "" {
		t.Fatalf("expected no conversation, got %q", got)
	}
	if err := s.SetConversation("abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := s.Conversation(); got != "abc123" {
		t.Fatalf("got %q", got)
	}
	if err := s.SetConversation(""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.Conversation(); got != "" {
		t.Fatalf("expected cleared conversation, got %q", got)
	}
	if err := s.SetConversation(""); err != nil {
		t.Fatalf("clearing twice should be a no-op: %v", err)
	}
}

func TestOpenSessionRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSession(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
