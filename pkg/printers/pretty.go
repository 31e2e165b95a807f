// Package printers renders events, chat turns and auth state for the CLI.
package printers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/api"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/chat"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
)

// PrettyPrint writes human-oriented output.
type PrettyPrint struct {
	Out      io.Writer
	Location *time.Location
	ShowID   bool
	Width    int
}

// DisableColorUnlessTTY turns colour off when f is not a terminal.
func DisableColorUnlessTTY(f *os.File) {
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		color.NoColor = true
	}
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) loc() *time.Location {
	if pp.Location == nil {
		return time.Local
	}
	return pp.Location
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return 80
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " event")
	default:
		_, _ = c.Fprintln(pp.out(), " events")
	}
}

// Agenda prints events grouped by day, in grid order.
func (pp *PrettyPrint) Agenda(grid calendar.MonthGrid, idx calendar.EventIndex) {
	faint := color.New(color.Faint, color.Italic)
	day := color.New(color.Bold)
	today := color.New(color.Bold, color.FgHiYellow)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)

	printed := 0
	for _, cell := range grid.Cells {
		events := idx.On(cell.Key)
		if len(events) == 0 {
			continue
		}
		printed++
		heading := day
		if cell.IsToday {
			heading = today
		}
		_, _ = heading.Fprintln(pp.out(), cell.Date.Format("Mon Jan 2"))

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = uint(pp.width())
		tbl.Wrap = true
		for _, e := range events {
			row := []interface{}{"  " + calendar.FormatTimeRange(e, pp.loc()), e.Title}
			if e.Location != "" {
				row = append(row, faint.Sprint(e.Location))
			} else {
				row = append(row, "")
			}
			if pp.ShowID {
				row = append(row, id.Sprint(e.ID))
			}
			tbl.AddRow(row...)
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
	}
	if printed == 0 {
		_, _ = faint.Fprint(pp.out(), " none\n\n")
		return
	}
	pp.NewLine()
}

// Rejected lists records the range excluded, for diagnostics.
func (pp *PrettyPrint) Rejected(w io.Writer, rejected []calendar.Rejected) {
	if len(rejected) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	for _, r := range rejected {
		_, _ = warn.Fprintf(w, "skipped %s\n", r.Error())
	}
}

// Failure renders a classified load failure with its affordance.
func (pp *PrettyPrint) Failure(f loader.Failure) {
	red := color.New(color.FgRed, color.Bold)
	hint := color.New(color.Faint)
	_, _ = red.Fprintln(pp.out(), "Error: "+f.Reason)
	if f.NeedsReconnect() {
		_, _ = hint.Fprintf(pp.out(), "Reconnect your calendar: %s\n", f.LoginURL)
		return
	}
	_, _ = hint.Fprintln(pp.out(), "Run the command again to retry.")
}

// Message prints one chat message, wrapped to the terminal width.
func (pp *PrettyPrint) Message(m chat.Message) {
	label := color.New(color.Bold, color.FgCyan)
	body := color.New()
	if m.Role == chat.RoleUser {
		label = color.New(color.Bold, color.FgGreen)
	}
	if m.Failed {
		body = color.New(color.FgRed)
	}
	_, _ = label.Fprintf(pp.out(), "%s:\n", roleLabel(m.Role))
	text := wordwrap.String(m.Text, pp.width()-2)
	for _, line := range strings.Split(text, "\n") {
		_, _ = body.Fprintf(pp.out(), "  %s\n", line)
	}
	if len(m.Actions) > 0 {
		faint := color.New(color.Faint)
		_, _ = faint.Fprintf(pp.out(), "  actions: %s\n", strings.Join(m.Actions, ", "))
	}
}

func roleLabel(r chat.Role) string {
	if r == chat.RoleUser {
		return "You"
	}
	return "Assistant"
}

// Auth prints the backend auth status.
func (pp *PrettyPrint) Auth(s api.AuthStatus) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	state := color.New(color.FgGreen).Sprint("connected")
	if !s.Authenticated {
		state = color.New(color.FgRed).Sprint("not connected")
	}
	tbl.AddRow(bold.Sprint("Calendar"), state)
	if s.Message != "" {
		tbl.AddRow(bold.Sprint("Message"), s.Message)
	}
	if !s.Authenticated {
		tbl.AddRow(bold.Sprint("Reconnect"), s.LoginURL)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
