package calendar

import (
	"fmt"
	"strings"
	"time"
)

// WeekStart selects the first column of the month grid.
type WeekStart int

const (
	// Sunday puts Sunday in the first column.
	Sunday WeekStart = iota
	// Monday puts Monday in the first column.
	Monday
)

// ParseWeekStart accepts "sunday" or "monday" (any case). An empty value
// means Sunday.
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday", "sun":
		return Sunday, nil
	case "monday", "mon":
		return Monday, nil
	default:
		return Sunday, fmt.Errorf("calendar: unknown week start %q", s)
	}
}

func (w WeekStart) String() string {
	if w == Monday {
		return "monday"
	}
	return "sunday"
}

const (
	// DaysPerWeek is the number of columns in the grid.
	DaysPerWeek = 7
	// GridWeeks is the number of rows in the grid.
	GridWeeks = 6
	// GridCells is the fixed size of every month grid.
	GridCells = DaysPerWeek * GridWeeks
)

// DayCell is one day of the month grid.
type DayCell struct {
	Date           time.Time
	Key            DayKey
	InCurrentMonth bool
	IsToday        bool
	IsSelected     bool
	HasEvents      bool
}

// MonthGrid is six full weeks covering the viewed month.
type MonthGrid struct {
	Month     time.Time
	WeekStart WeekStart
	Cells     [GridCells]DayCell
}

// ComputeGrid builds the grid for the month containing viewedMonth. The
// grid's location is viewedMonth's location; today and selected are compared
// by calendar day in that location. A zero selected marks no cell.
func ComputeGrid(viewedMonth time.Time, weekStart WeekStart, today, selected time.Time, index EventIndex) MonthGrid {
	loc := viewedMonth.Location()
	first := FirstOfMonth(viewedMonth)
	anchor := first.AddDate(0, 0, -leadingDays(first.Weekday(), weekStart))

	todayKey := KeyOf(today, loc)
	var selectedKey DayKey
	if !selected.IsZero() {
		selectedKey = KeyOf(selected, loc)
	}

	grid := MonthGrid{Month: first, WeekStart: weekStart}
	for i := 0; i < GridCells; i++ {
		// Calendar arithmetic, not 24h steps, so DST days stay aligned.
		date := time.Date(anchor.Year(), anchor.Month(), anchor.Day()+i, 0, 0, 0, 0, loc)
		key := DayKey(date.Format(dayKeyLayout))
		grid.Cells[i] = DayCell{
			Date:           date,
			Key:            key,
			InCurrentMonth: date.Month() == first.Month() && date.Year() == first.Year(),
			IsToday:        key == todayKey,
			IsSelected:     selectedKey != "" && key == selectedKey,
			HasEvents:      index.Has(key),
		}
	}
	return grid
}

func leadingDays(weekday time.Weekday, weekStart WeekStart) int {
	if weekStart == Monday {
		return (int(weekday) + 6) % 7
	}
	return int(weekday)
}

// Weeks splits the grid into rows of seven cells.
func (g MonthGrid) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, GridWeeks)
	for w := 0; w < GridWeeks; w++ {
		row := make([]DayCell, DaysPerWeek)
		copy(row, g.Cells[w*DaysPerWeek:(w+1)*DaysPerWeek])
		weeks = append(weeks, row)
	}
	return weeks
}

// Start is local midnight of the first cell.
func (g MonthGrid) Start() time.Time { return g.Cells[0].Date }

// End is local midnight after the last cell, exclusive.
func (g MonthGrid) End() time.Time {
	last := g.Cells[GridCells-1].Date
	return time.Date(last.Year(), last.Month(), last.Day()+1, 0, 0, 0, 0, last.Location())
}

// Cell looks up a day inside the grid.
func (g MonthGrid) Cell(key DayKey) (DayCell, bool) {
	for _, c := range g.Cells {
		if c.Key == key {
			return c, true
		}
	}
	return DayCell{}, false
}

// VisibleRange is the [start, end) span a loader should fetch for the grid.
func VisibleRange(g MonthGrid) (time.Time, time.Time) {
	return g.Start(), g.End()
}

// FirstOfMonth returns midnight on the first day of t's month, in t's
// location.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthOffset returns the first of the month offset months away from base.
func MonthOffset(base time.Time, offset int) time.Time {
	first := FirstOfMonth(base)
	return time.Date(first.Year(), first.Month()+time.Month(offset), 1, 0, 0, 0, 0, first.Location())
}

// MonthsBetween counts whole calendar months from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// WeekdayLabels returns two-letter column headers in grid order.
func WeekdayLabels(weekStart WeekStart) []string {
	labels := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	if weekStart == Monday {
		return append(labels[1:], labels[0])
	}
	return labels
}
