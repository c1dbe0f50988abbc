package timex

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseRangeBound parses an optional range bound given either as RFC 3339 or
// as a bare date. An empty string yields nil (unbounded). A bare date is the
// start of that day when endOfDay is false and its last nanosecond otherwise,
// so an inclusive range over dates covers whole days.
func ParseRangeBound(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
