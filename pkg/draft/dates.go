package draft

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Exact calendar dates are always redacted to month-year granularity so a
// drafted email never exposes a specific day the sender cannot commit to.

var (
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	usDatePattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	// "March 14, 2025", "Mar 14 2025", "March 14th, 2025"
	monthDayYearPattern = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	// "14 March 2025"
	dayMonthYearPattern = regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?,?\s+(\d{4})\b`)
)

// RedactDates rewrites every exact calendar date in text to "Month YYYY".
func RedactDates(text string) string {
	text = isoDatePattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := isoDatePattern.FindStringSubmatch(m)
		return monthYearFromNumbers(sub[2], sub[1], m)
	})
	text = usDatePattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := usDatePattern.FindStringSubmatch(m)
		return monthYearFromNumbers(sub[1], sub[3], m)
	})
	text = monthDayYearPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := monthDayYearPattern.FindStringSubmatch(m)
		return fullMonthName(sub[1]) + " " + sub[2]
	})
	text = dayMonthYearPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := dayMonthYearPattern.FindStringSubmatch(m)
		return fullMonthName(sub[1]) + " " + sub[2]
	})
	return text
}

// MonthYear formats a YYYY-MM-DD (or already coarse) date string as
// "Month YYYY". Free-text values that don't parse pass through unchanged,
// redacted of any exact day.
func MonthYear(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2006-1-2", "01/02/2006", "1/2/2006", "2006-01"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("January 2006")
		}
	}
	return RedactDates(date)
}

// monthYearFromNumbers converts numeric month/year strings, leaving the
// original text alone when the month is out of range.
func monthYearFromNumbers(month, year, original string) string {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return original
	}
	return time.Month(m).String() + " " + year
}

// fullMonthName expands an abbreviated month name.
func fullMonthName(name string) string {
	name = strings.TrimSuffix(name, ".")
	if len(name) <= 4 {
		prefix := strings.ToLower(name[:3])
		for m := time.January; m <= time.December; m++ {
			if strings.ToLower(m.String()[:3]) == prefix {
				return m.String()
			}
		}
	}
	return name
}
