package validate

import (
	"strings"
	"time"
)

// Accepted layouts, tried in order. Month-first numeric forms precede
// day-first so that an ambiguous 03/04/2022 resolves to March 4th; the
// day-first layouts still catch dates like 25/12/2022 that month-first
// parsing rejects.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Two-digit year layouts; the parsed year is re-resolved against the
// configured pivot instead of Go's built-in 69/68 split.
var shortDateLayouts = []string{
	"01/02/06",
	"02/01/06",
	"01-02-06",
	"02-01-06",
}

const (
	minDateYear = 1900
	maxDateYear = 2099
)

// validateDate parses the span against the closed set of accepted layouts
// and normalizes to YYYY-MM-DD. Two-digit years resolve via the pivot:
// < pivot maps to 20xx, otherwise 19xx. Years outside [1900, 2099] are
// rejected.
func (v *Validator) validateDate(raw string) (value, note string, ok bool) {
	span := strings.TrimSpace(raw)
	if span == "" {
		return "", "empty span", false
	}

	parsed, short := parseDate(span)
	if parsed.IsZero() {
		return "", "matches no accepted date layout", false
	}

	if short {
		parsed = v.applyYearPivot(parsed)
		note = "two-digit year resolved"
	}

	year := parsed.Year()
	if year < minDateYear || year > maxDateYear {
		return "", "year out of accepted range", false
	}

	return parsed.Format("2006-01-02"), note, true
}

func parseDate(span string) (t time.Time, short bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, span); err == nil {
			return parsed, false
		}
	}
	for _, layout := range shortDateLayouts {
		if parsed, err := time.Parse(layout, span); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// applyYearPivot rewrites the century of a two-digit year. Go's parser
// resolves "06" layouts with its own split; only the final two digits are
// kept and re-anchored against the configured pivot.
func (v *Validator) applyYearPivot(t time.Time) time.Time {
	yy := t.Year() % 100
	year := 1900 + yy
	if yy < v.yearPivot {
		year = 2000 + yy
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
