package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// extractDate pulls a publish date from a date element, preferring the
// machine-readable datetime attribute over the element text.
func extractDate(el *goquery.Selection) *time.Time {
	if el == nil {
		return nil
	}
	if dt, ok := el.Attr("datetime"); ok {
		if t := parseDate(dt); t != nil {
			return t
		}
	}
	return parseDate(el.Text())
}

// humanDateLayouts covers date strings sites render for readers, like
// "Jan 29, 2026", which dateparse occasionally rejects when surrounded by
// stray text.
var humanDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
}

// parseDate parses a date string leniently. Returns nil when the string is
// empty or cannot be interpreted as a date.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return &t
	}

	for _, layout := range humanDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
