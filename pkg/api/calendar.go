package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
)

// EventsResult is one calendar range as delivered by the backend. Records
// are left unvalidated so the caller can reject them individually.
type EventsResult struct {
	Start   time.Time
	End     time.Time
	Count   int
	Records []calendar.Record
}

type eventsResponse struct {
	Success *bool            `json:"success"`
	Count   int              `json:"count"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Events  *json.RawMessage `json:"events"`
}

type eventPayload struct {
	ID          *string  `json:"id"`
	Title       *string  `json:"title"`
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Attendees   []string `json:"attendees"`
}

// Events fetches events starting in [start, end).
func (c *Client) Events(ctx context.Context, start, end time.Time) (EventsResult, error) {
	const op = "list events"
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))

	var resp eventsResponse
	if err := c.do(ctx, op, http.MethodGet, c.endpoint(eventsPath, q), nil, &resp); err != nil {
		return EventsResult{}, err
	}
	if resp.Events == nil || bytes.Equal(bytes.TrimSpace(*resp.Events), []byte("null")) {
		return EventsResult{}, &MalformedResponseError{Op: op, Reason: `missing "events"`}
	}

	// Decode per element so one odd record does not fail the whole range.
	var raw []json.RawMessage
	if err := json.Unmarshal(*resp.Events, &raw); err != nil {
		return EventsResult{}, &MalformedResponseError{Op: op, Reason: `"events" is not a list`, Err: err}
	}

	records := make([]calendar.Record, 0, len(raw))
	for _, item := range raw {
		var p eventPayload
		if err := json.Unmarshal(item, &p); err != nil {
			// Keep the ordinal; an empty start makes Normalize reject it.
			records = append(records, calendar.Record{Title: "unreadable event"})
			continue
		}
		records = append(records, calendar.Record{
			ID:          deref(p.ID),
			Title:       deref(p.Title),
			Start:       deref(p.StartTime),
			End:         deref(p.EndTime),
			Description: deref(p.Description),
			Location:    deref(p.Location),
			Attendees:   p.Attendees,
		})
	}

	result := EventsResult{Start: start, End: end, Count: resp.Count, Records: records}
	if t, err := time.Parse(time.RFC3339Nano, resp.Start); err == nil {
		result.Start = t
	}
	if t, err := time.Parse(time.RFC3339Nano, resp.End); err == nil {
		result.End = t
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
