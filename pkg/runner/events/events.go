// Package events prints the calendar for a month from the CLI.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/app"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/printers"
)

// Events loads the visible range of Month and prints it.
type Events struct {
	Service *app.Service
	// Month is any instant inside the month to show. Zero means this month.
	Month  time.Time
	ShowID bool
	JSON   bool

	Out    io.Writer
	ErrOut io.Writer
}

type jsonEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Day         string     `json:"day"`
	Time        string     `json:"time"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	Attendees   []string   `json:"attendees,omitempty"`
}

type jsonOutput struct {
	Month    string      `json:"month"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Events   []jsonEvent `json:"events"`
	Rejected []string    `json:"rejected,omitempty"`
}

// ErrLoadFailed is returned after a failed load has been reported.
var ErrLoadFailed = errors.New("events: load failed")

func (n *Events) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("events: no service configured")
	}
	out, errOut := n.Out, n.ErrOut
	if out == nil {
		out = color.Output
	}
	if errOut == nil {
		errOut = color.Error
	}

	loc := n.Service.Location()
	now := n.Service.Now()
	month := n.Month
	if month.IsZero() {
		month = now
	}
	viewed := calendar.FirstOfMonth(month.In(loc))

	l := n.Service.NewLoader()
	empty := calendar.ComputeGrid(viewed, n.Service.WeekStart(), now, time.Time{}, nil)
	start, end := calendar.VisibleRange(empty)
	snap := l.LoadAndWait(ctx, start, end)

	pp := printers.PrettyPrint{Out: out, Location: loc, ShowID: n.ShowID}
	if snap.State == loader.Failed {
		if n.JSON {
			return fmt.Errorf("%w: %s", ErrLoadFailed, snap.Failure.Reason)
		}
		pp.Failure(*snap.Failure)
		return ErrLoadFailed
	}

	pp.Rejected(errOut, snap.Rejected)
	if n.JSON {
		return json.NewEncoder(out).Encode(toJSON(viewed, snap, loc))
	}

	grid := calendar.ComputeGrid(viewed, n.Service.WeekStart(), now, time.Time{}, snap.Index)
	pp.Month(grid)
	pp.TitleWithCount(viewed.Format("January 2006"), len(snap.Events))
	pp.Agenda(grid, snap.Index)
	return nil
}

func toJSON(viewed time.Time, snap loader.Snapshot, loc *time.Location) jsonOutput {
	o := jsonOutput{
		Month:  viewed.Format("2006-01"),
		Start:  snap.Range.Start,
		End:    snap.Range.End,
		Events: make([]jsonEvent, 0, len(snap.Events)),
	}
	for _, e := range snap.Events {
		o.Events = append(o.Events, jsonEvent{
			ID:          e.ID,
			Title:       e.Title,
			Day:         calendar.KeyOf(e.Start, loc).String(),
			Time:        calendar.FormatTimeRange(e, loc),
			Start:       e.Start,
			End:         e.End,
			Location:    e.Location,
			Description: e.Description,
			Attendees:   e.Attendees,
		})
	}
	for _, r := range snap.Rejected {
		o.Rejected = append(o.Rejected, r.Error())
	}
	return o
}
