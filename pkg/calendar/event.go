package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Event is a single validated calendar entry within a loaded range.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         *time.Time
	Location    string
	Description string
	Attendees   []string
}

// HasEnd reports whether the event carries an end time.
func (e Event) HasEnd() bool { return e.End != nil }

// Record is an event exactly as the backend delivered it, before any
// validation. Timestamps are kept as text so a single bad value can be
// rejected without failing the whole range.
type Record struct {
	ID          string
	Title       string
	Start       string
	End         string
	Description string
	Location    string
	Attendees   []string
}

// Rejected describes a record that was excluded from the range.
type Rejected struct {
	// Ordinal is the record's position in the backend response.
	Ordinal int
	ID      string
	Title   string
	Reason  string
}

func (r Rejected) Error() string {
	label := r.ID
	if label == "" {
		label = "#" + strconv.Itoa(r.Ordinal)
	}
	return fmt.Sprintf("event %s (%q): %s", label, r.Title, r.Reason)
}

var errEmptyInstant = errors.New("empty timestamp")

// instantLayouts are tried in order. Zone-less date-times are read as UTC,
// the same way the backend stores them.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseInstant parses a backend timestamp. Date-only values are all-day
// markers and resolve to midnight in loc.
func ParseInstant(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errEmptyInstant
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dayKeyLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
	}
	return t, nil
}

// SynthesizeID derives a stable identifier for records that arrive without
// one. The same start and ordinal always yield the same id.
func SynthesizeID(start time.Time, ordinal int) string {
	return "evt-" + start.UTC().Format("20060102T150405Z") + "-" + strconv.Itoa(ordinal)
}

// Normalize validates backend records. Records with an unusable start are
// returned as rejections instead of events; everything else survives.
// Missing ids are synthesized, duplicate ids are suffixed with the ordinal,
// and an end earlier than the start is dropped.
func Normalize(records []Record, loc *time.Location) ([]Event, []Rejected) {
	events := make([]Event, 0, len(records))
	var rejected []Rejected
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		start, err := ParseInstant(rec.Start, loc)
		if err != nil {
			rejected = append(rejected, Rejected{
				Ordinal: i,
				ID:      id,
				Title:   rec.Title,
				Reason:  "invalid start: " + err.Error(),
			})
			continue
		}

		if id == "" {
			id = SynthesizeID(start, i)
		}
		id = uniqueID(id, i, seen)
		seen[id] = true

		ev := Event{
			ID:          id,
			Title:       strings.TrimSpace(rec.Title),
			Start:       start,
			Location:    strings.TrimSpace(rec.Location),
			Description: strings.TrimSpace(rec.Description),
			Attendees:   append([]string{}, rec.Attendees...),
		}
		if strings.TrimSpace(rec.End) != "" {
			if end, err := ParseInstant(rec.End, loc); err == nil && !end.Before(start) {
				ev.End = &end
			}
		}
		events = append(events, ev)
	}
	return events, rejected
}

// uniqueID suffixes id with the ordinal, then with larger numbers, until it
// no longer collides with an id already handed out.
func uniqueID(id string, ordinal int, seen map[string]bool) string {
	candidate := id
	for n := ordinal; seen[candidate]; n++ {
		candidate = id + "~" + strconv.Itoa(n)
	}
	return candidate
}

// SortByStart returns a copy of events ordered by ascending start. Events
// that start together keep their relative order.
func SortByStart(events []Event) []Event {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}
