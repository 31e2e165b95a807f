package calendar

import "time"

const (
	clockLayout    = "15:04"
	dayClockLayout = "Jan 2 15:04"
	rangeSeparator = "–"
)

// FormatTimeRange renders the event's time in loc. Events with an end render
// as "start–end"; the end carries its date when it falls on a later day.
// Every surface (calendar agenda, CLI listing, chat) uses this one format.
func FormatTimeRange(e Event, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	start := e.Start.In(loc)
	if e.End == nil {
		return start.Format(clockLayout)
	}
	end := e.End.In(loc)
	if KeyOf(start, loc) == KeyOf(end, loc) {
		return start.Format(clockLayout) + rangeSeparator + end.Format(clockLayout)
	}
	return start.Format(dayClockLayout) + rangeSeparator + end.Format(dayClockLayout)
}
