package models

import (
	"strings"
	"time"
)

// DisplayDate is the long form used on court documents.
const DisplayDate = "January 2, 2006"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"01/02/2006",
	"1/2/2006",
	DisplayDate,
	"Jan 2, 2006",
}

// ParseDate accepts the date formats the intake forms and API clients send.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
