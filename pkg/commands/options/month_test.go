package options

import (
	"testing"
	"time"
)

func TestGetMonth(t *testing.T) {
	now := time.Date(2025, time.November, 17, 15, 4, 0, 0, time.UTC)
	tests := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"empty is this month": {in: "", want: "2025-11"},
		"full":                {in: "2025-3", want: "2025-03"},
		"full padded":         {in: "2026-01", want: "2026-01"},
		"number only":         {in: "2", want: "2025-02"},
		"name":                {in: "mar", want: "2025-03"},
		"long name":           {in: "September", want: "2025-09"},
		"next":                {in: "+1", want: "2025-12"},
		"across year":         {in: "+3", want: "2026-02"},
		"back":                {in: "-11", want: "2024-12"},
		"garbage":             {in: "soon", wantErr: true},
		"bad offset":          {in: "+x", wantErr: true},
		"month out of range":  {in: "13", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := MonthOptions{MonthString: tc.in}
			got, err := o.GetMonth(now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("2006-01") != tc.want || got.Day() != 1 || got.Hour() != 0 {
				t.Fatalf("got %s, want first of %s", got, tc.want)
			}
		})
	}
}

func TestMonthCompletions(t *testing.T) {
	now := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	all := MonthCompletions(now, "")
	if len(all) != 12 || all[0] != "2025-11" || all[11] != "2026-10" {
		t.Fatalf("unexpected completions %v", all)
	}
	next := MonthCompletions(now, "2026")
	if len(next) != 10 {
		t.Fatalf("expected 10 months in 2026, got %v", next)
	}
}
