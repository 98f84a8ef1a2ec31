package feed

import (
	"fmt"
	"time"
)

// DateUnknown is rendered wherever a publication date could not be parsed.
const DateUnknown = "Дата не указана"

// Feeds in the wild mix RFC 2822 with UTC/GMT/numeric-offset suffixes and
// ISO 8601 with or without milliseconds. Tried in order.
var dateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04 MST",
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var ruMonthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// ParseFlexibleDate tries the known feed date layouts in order and reports
// whether parsing succeeded. It never returns an error.
func ParseFlexibleDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDisplayDate renders a date the way the site shows it: "2 января 2023".
func FormatDisplayDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), ruMonthsGenitive[t.Month()-1], t.Year())
}

// DisplayDate parses a raw feed date and renders it for display, falling back
// to the DateUnknown sentinel.
func DisplayDate(value string) string {
	t, ok := ParseFlexibleDate(value)
	if !ok {
		return DateUnknown
	}
	return FormatDisplayDate(t)
}
