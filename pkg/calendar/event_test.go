package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeRejectsBadStartWithoutDroppingOthers(t *testing.T) {
	records := []Record{
		{ID: "ok-1", Title: "Standup", Start: "2025-11-03T09:00:00Z", End: "2025-11-03T09:15:00Z"},
		{ID: "bad", Title: "Broken", Start: "next tuesday"},
		{ID: "ok-2", Title: "Lunch", Start: "2025-11-03T12:00:00+00:00"},
		{Title: "No start"},
	}
	events, rejected := Normalize(records, time.UTC)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %d", len(rejected))
	}
	if rejected[0].ID != "bad" || rejected[0].Ordinal != 1 {
		t.Fatalf("unexpected rejection %+v", rejected[0])
	}
	if !strings.Contains(rejected[1].Error(), "#3") {
		t.Fatalf("rejection without id should be labelled by ordinal: %s", rejected[1].Error())
	}
	if events[0].End == nil || events[0].End.Sub(events[0].Start) != 15*time.Minute {
		t.Fatalf("expected end to survive, got %+v", events[0].End)
	}
}

func TestNormalizeSynthesizesDeterministicIDs(t *testing.T) {
	records := []Record{
		{Title: "A", Start: "2025-11-03T09:00:00Z"},
		{Title: "B", Start: "2025-11-03T09:00:00Z"},
	}
	first, _ := Normalize(records, time.UTC)
	second, _ := Normalize(records, time.UTC)
	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Fatalf("ids must be stable across calls: %s/%s vs %s/%s", first[0].ID, first[1].ID, second[0].ID, second[1].ID)
	}
	if first[0].ID == first[1].ID {
		t.Fatalf("ids must be unique within a range, both %s", first[0].ID)
	}
	if first[0].ID != "evt-20251103T090000Z-0" {
		t.Fatalf("unexpected synthesized id %s", first[0].ID)
	}
}

func TestNormalizeDisambiguatesDuplicateIDs(t *testing.T) {
	records := []Record{
		{ID: "dup", Start: "2025-11-03T09:00:00Z"},
		{ID: "dup", Start: "2025-11-04T09:00:00Z"},
	}
	events, _ := Normalize(records, time.UTC)
	if events[0].ID == events[1].ID {
		t.Fatalf("duplicate ids survived normalization")
	}
}

func TestNormalizeSuffixNeverCollides(t *testing.T) {
	cases := map[string][]string{
		"suffix already present":  {"a", "a~2", "a"},
		"suffix present later":    {"a", "a", "a~1"},
		"repeated suffix chain":   {"a", "a~1", "a", "a~2", "a"},
		"synthesized then reused": {"", "evt-20251103T090000Z-0"},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			records := make([]Record, 0, len(ids))
			for _, id := range ids {
				records = append(records, Record{ID: id, Start: "2025-11-03T09:00:00Z"})
			}
			events, rejected := Normalize(records, time.UTC)
			if len(rejected) != 0 || len(events) != len(ids) {
				t.Fatalf("expected %d events, got %d (%d rejected)", len(ids), len(events), len(rejected))
			}
			counts := map[string]int{}
			for _, e := range events {
				counts[e.ID]++
			}
			for id, n := range counts {
				if n > 1 {
					t.Fatalf("id %q appears %d times in %v", id, n, events)
				}
			}
		})
	}
}

func TestNormalizeDropsEndBeforeStart(t *testing.T) {
	events, rejected := Normalize([]Record{{ID: "x", Start: "2025-11-03T10:00:00Z", End: "2025-11-03T09:00:00Z"}}, time.UTC)
	if len(rejected) != 0 || len(events) != 1 {
		t.Fatalf("event should survive with its start")
	}
	if events[0].HasEnd() {
		t.Fatalf("end before start must be dropped")
	}
}

func TestParseInstantForms(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-11-03T09:00:00Z", time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)},
		{"2025-11-03T09:00:00.250000+00:00", time.Date(2025, time.November, 3, 9, 0, 0, 250000000, time.UTC)},
		{"2025-11-03T09:00:00", time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)},
		{"2025-11-03", time.Date(2025, time.November, 3, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		got, err := ParseInstant(tc.in, loc)
		if err != nil {
			t.Fatalf("ParseInstant(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseInstant(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseInstant("  ", loc); err == nil {
		t.Fatalf("expected error for blank timestamp")
	}
}

func TestFormatTimeRange(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	start := time.Date(2025, time.November, 3, 17, 0, 0, 0, time.UTC)
	sameDay := start.Add(90 * time.Minute)
	nextDay := start.Add(20 * time.Hour)

	if got := FormatTimeRange(Event{Start: start}, loc); got != "09:00" {
		t.Fatalf("start only: %q", got)
	}
	if got := FormatTimeRange(Event{Start: start, End: &sameDay}, loc); got != "09:00–10:30" {
		t.Fatalf("same day: %q", got)
	}
	if got := FormatTimeRange(Event{Start: start, End: &nextDay}, loc); got != "Nov 3 09:00–Nov 4 05:00" {
		t.Fatalf("multi day: %q", got)
	}
}
