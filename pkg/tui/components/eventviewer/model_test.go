package eventviewer

import (
	"strings"
	"testing"
	"time"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
)

var testRange = loader.Range{
	Start: time.Date(2025, time.October, 26, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, time.December, 7, 0, 0, 0, 0, time.UTC),
}

func TestAppendKeepsNewestFirstAndCaps(t *testing.T) {
	m := NewModel(2)
	m.Append(Entry{Summary: "one"})
	m.Append(Entry{Summary: "two"})
	m.Append(Entry{Summary: "three"})
	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
	if got[0].Summary != "three" || got[1].Summary != "two" {
		t.Fatalf("unexpected order %q, %q", got[0].Summary, got[1].Summary)
	}
	if got[0].Source != "ui" || got[0].Timestamp.IsZero() {
		t.Fatalf("defaults not applied: %+v", got[0])
	}
}

func TestAppendRejectedLogsEachRecord(t *testing.T) {
	m := NewModel(10)
	m.AppendRejected(testRange, []calendar.Rejected{
		{Ordinal: 0, ID: "bad-1", Reason: "invalid start"},
		{Ordinal: 4, Reason: "missing start"},
	})
	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Level != LevelWarn || e.Source != "loader" {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
	if !strings.Contains(entries[1].Detail, "bad-1") {
		t.Fatalf("expected record id in detail, got %q", entries[1].Detail)
	}
}

func TestAppendFailureCarriesReconnectURL(t *testing.T) {
	m := NewModel(10)
	m.AppendFailure(testRange, loader.Failure{
		Kind:     loader.FailureAuthRequired,
		Reason:   "Google Calendar is not authenticated",
		LoginURL: "http://localhost:8000/auth/google/login",
	})
	e := m.Entries()[0]
	if e.Level != LevelError || e.Summary != "auth-required failure" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !strings.Contains(e.Detail, "/auth/google/login") {
		t.Fatalf("expected login url in detail, got %q", e.Detail)
	}
}

func TestViewNeedsSize(t *testing.T) {
	m := NewModel(10)
	if m.View() != "" {
		t.Fatalf("unsized viewer should render nothing")
	}
	m.SetSize(40, 6)
	if !strings.Contains(m.View(), "Diagnostics (0)") {
		t.Fatalf("expected header, got:\n%s", m.View())
	}
}
