package calendar

import "time"

// EventIndex buckets events by the DayKey of their start.
type EventIndex map[DayKey][]Event

// IndexEvents groups events by local start day. Order within a day follows
// the input order, so callers that want chronological buckets pass events
// through SortByStart first.
func IndexEvents(events []Event, loc *time.Location) EventIndex {
	idx := make(EventIndex)
	for _, ev := range events {
		key := KeyOf(ev.Start, loc)
		idx[key] = append(idx[key], ev)
	}
	return idx
}

// On returns the events starting on key.
func (idx EventIndex) On(key DayKey) []Event {
	if idx == nil {
		return nil
	}
	return idx[key]
}

// Has reports whether any event starts on key.
func (idx EventIndex) Has(key DayKey) bool {
	return len(idx.On(key)) > 0
}

// Len counts events across all buckets.
func (idx EventIndex) Len() int {
	n := 0
	for _, bucket := range idx {
		n += len(bucket)
	}
	return n
}
