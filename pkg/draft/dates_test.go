package draft

import "testing"

func TestRedactDates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"iso", "Let's meet on 2025-03-14", "Let's meet on March 2025"},
		{"us slash", "Contract signed 3/14/2025.", "Contract signed March 2025."},
		{"month day year", "Renewal on March 14, 2025", "Renewal on March 2025"},
		{"abbreviated month", "Due Mar 14 2025", "Due March 2025"},
		{"ordinal day", "By March 14th, 2025", "By March 2025"},
		{"day month year", "Ends 14 March 2025", "Ends March 2025"},
		{"invalid month untouched", "Ref 2025-13-40 stays", "Ref 2025-13-40 stays"},
		{"no dates", "Nothing to redact here.", "Nothing to redact here."},
		{"already coarse", "Ends March 2025", "Ends March 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactDates(tt.in); got != tt.want {
				t.Errorf("RedactDates(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-01-15", "January 2026"},
		{"2026-01", "January 2026"},
		{"1/15/2026", "January 2026"},
		{"March 2026", "March 2026"},
		{"sometime next year", "sometime next year"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MonthYear(tt.in); got != tt.want {
			t.Errorf("MonthYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
