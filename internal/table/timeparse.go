package table

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "2006-01-02 15:04", "2006-01-02 15:04:05",
	"2006-01-02T15:04:05", "1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05", "02.01.2006",
}

// ParseTime parses a date or timestamp written in any common layout. Fixed layouts are
// tried first; anything else goes through dateparse.
func ParseTime(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseAny(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
