package calendar

import (
	"fmt"
	"testing"
	"time"
)

func TestKeyOfStableWithinLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	day := time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)
	want := DayKey("2025-03-09")
	for minutes := 0; minutes < 24*60; minutes += 17 {
		t1 := day.Add(time.Duration(minutes) * time.Minute)
		if got := KeyOf(t1, loc); got != want {
			t.Fatalf("%s: got %s want %s", t1, got, want)
		}
		// The same instant observed from UTC must still land on the local day.
		if got := KeyOf(t1.UTC(), loc); got != want {
			t.Fatalf("%s (utc): got %s want %s", t1.UTC(), got, want)
		}
	}
	lastNano := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if got := KeyOf(lastNano, loc); got != want {
		t.Fatalf("end of day boundary: got %s", got)
	}
	if got := KeyOf(day.AddDate(0, 0, 1), loc); got == want {
		t.Fatalf("next midnight must belong to the next day")
	}
}

func TestKeyOfAcrossDaylightSavingTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// 2025-03-09 is 23 hours long in New York.
	start := time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)
	for h := 0; h < 23; h++ {
		ts := start.Add(time.Duration(h) * time.Hour)
		if got := KeyOf(ts, loc); got != "2025-03-09" {
			t.Fatalf("hour %d (%s): got %s", h, ts, got)
		}
	}
	back, err := DayKey("2025-03-09").Time(loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(start) {
		t.Fatalf("round trip: got %s want %s", back, start)
	}
}

func TestIndexEventsBucketsEveryEventOnce(t *testing.T) {
	loc := time.UTC
	base := time.Date(2025, time.November, 1, 0, 0, 0, 0, loc)
	var events []Event
	for i := 0; i < 50; i++ {
		start := base.Add(time.Duration(i*7) * time.Hour)
		events = append(events, Event{ID: fmt.Sprintf("e%02d", i), Start: start})
	}

	idx := IndexEvents(events, loc)
	if idx.Len() != len(events) {
		t.Fatalf("expected %d indexed events, got %d", len(events), idx.Len())
	}
	seen := make(map[string]DayKey)
	for key, bucket := range idx {
		for _, ev := range bucket {
			if prev, dup := seen[ev.ID]; dup {
				t.Fatalf("event %s appears under %s and %s", ev.ID, prev, key)
			}
			seen[ev.ID] = key
			if KeyOf(ev.Start, loc) != key {
				t.Fatalf("event %s bucketed under %s, starts %s", ev.ID, key, ev.Start)
			}
		}
	}
	for _, ev := range events {
		if _, ok := seen[ev.ID]; !ok {
			t.Fatalf("event %s lost", ev.ID)
		}
	}
}

func TestIndexEventsKeepsInputOrderWithinDay(t *testing.T) {
	loc := time.UTC
	day := time.Date(2025, time.November, 3, 0, 0, 0, 0, loc)
	events := []Event{
		{ID: "late", Start: day.Add(17 * time.Hour)},
		{ID: "early", Start: day.Add(8 * time.Hour)},
	}
	if got := IndexEvents(events, loc).On("2025-11-03"); got[0].ID != "late" || got[1].ID != "early" {
		t.Fatalf("expected input order, got %s,%s", got[0].ID, got[1].ID)
	}
	sorted := IndexEvents(SortByStart(events), loc).On("2025-11-03")
	if sorted[0].ID != "early" || sorted[1].ID != "late" {
		t.Fatalf("expected chronological order after sorting, got %s,%s", sorted[0].ID, sorted[1].ID)
	}
	if events[0].ID != "late" {
		t.Fatalf("SortByStart must not reorder its input")
	}
}

func TestIndexEventsUsesViewerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	ev := Event{ID: "x", Start: time.Date(2025, time.November, 3, 20, 0, 0, 0, time.UTC)}
	idx := IndexEvents([]Event{ev}, tokyo)
	if !idx.Has("2025-11-04") || idx.Has("2025-11-03") {
		t.Fatalf("expected event to bucket on the Tokyo day, got %v", idx)
	}
}
