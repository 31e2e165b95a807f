package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints a compact month grid. Days with events are bold, days outside
// the month faint, today underlined.
func (pp *PrettyPrint) Month(grid calendar.MonthGrid) {
	tf := color.New(color.FgWhite, color.Italic)

	m := grid.Month.Format("January 2006")
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), m)

	hdr := color.New(color.Faint)
	_, _ = hdr.Fprintln(pp.out(), strings.Join(calendar.WeekdayLabels(grid.WeekStart), " "))

	outside := color.New(color.Faint, color.FgWhite)
	plain := color.New(color.FgWhite)
	busy := color.New(color.Bold, color.FgHiWhite)

	for _, week := range grid.Weeks() {
		for i, cell := range week {
			printer := plain
			switch {
			case !cell.InCurrentMonth:
				printer = outside
			case cell.HasEvents:
				printer = busy
			}
			if cell.IsToday {
				printer = color.New(color.Underline, color.Bold)
			}
			_, _ = printer.Fprintf(pp.out(), "%2d", cell.Date.Day())
			if i < len(week)-1 {
				_, _ = fmt.Fprint(pp.out(), " ")
			}
		}
		_, _ = fmt.Fprint(pp.out(), "\n")
	}
	_, _ = fmt.Fprint(pp.out(), "\n")
}
