package parse

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order when canonicalizing a raw date cell.
// M/D/YYYY comes first because it is the display format the sales exports use.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006-01-02",
	time.RFC3339,
	"2006/1/2",
	"2006-01-02 15:04:05",
	"02-01-2006",
}

var displayDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// ISODate canonicalizes a date-like value to YYYY-MM-DD. The second return is
// false when no interpretation exists.
func ISODate(v any) (string, bool) {
	t, ok := dateValue(v)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// MonthEnd resolves an inventory period: the raw date is canonicalized and
// then forced to the last calendar day of its month, whatever the original
// day-of-month was. Periods are monthly snapshots, not exact dates. When the
// value cannot be parsed at all, the result is the last day of now's month so
// ingestion stays non-blocking.
func MonthEnd(v any, now time.Time) string {
	t, ok := dateValue(v)
	if !ok {
		t = now
	}
	return lastDayOfMonth(t).Format("2006-01-02")
}

// IsDisplayDate reports whether s matches the expected M/D/YYYY display
// pattern. Sales document dates that do not match only produce warnings.
func IsDisplayDate(s string) bool {
	if !displayDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("1/2/2006", s)
	return err == nil
}

func dateValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
