package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutMonth      = "2006-1"
	layoutMonthShort = "1"
	layoutMonthName  = "Jan"
)

// MonthOptions selects the month a command works on.
type MonthOptions struct {
	MonthString string
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVarP(&o.MonthString, "month", "m", "",
		`Specify a month, example: --month="2025-3", --month=3, --month=mar or --month=+1.`)
}

// GetMonth resolves the flag against now. An empty flag means now's month.
// A bare month number or name means that month of the current year, and
// +N/-N moves relative to the current month. The result is the first of the
// month in now's location.
func (o *MonthOptions) GetMonth(now time.Time) (time.Time, error) {
	s := strings.TrimSpace(o.MonthString)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if s == "" {
		return first, nil
	}

	if s[0] == '+' || s[0] == '-' {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid month offset %q", s)
		}
		return first.AddDate(0, n, 0), nil
	}

	if t, err := time.Parse(layoutMonth, s); err == nil {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	if t, err := time.Parse(layoutMonthShort, s); err == nil {
		return time.Date(now.Year(), t.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	if len(s) >= 3 {
		if t, err := time.Parse(layoutMonthName, strings.ToUpper(s[:1])+strings.ToLower(s[1:3])); err == nil {
			return time.Date(now.Year(), t.Month(), 1, 0, 0, 0, 0, now.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM, a month number or name, or +N/-N", s)
}

// MonthCompletions lists the next twelve months as YYYY-MM for shell
// completion.
func MonthCompletions(now time.Time, prefix string) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var out []string
	for i := 0; i < 12; i++ {
		m := first.AddDate(0, i, 0).Format("2006-01")
		if strings.HasPrefix(m, prefix) {
			out = append(out, m)
		}
	}
	return out
}
