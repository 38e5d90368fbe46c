package search

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"mailsim/core/domain"
)

// internalDateMillis parses m's internalDate (epoch milliseconds as a
// decimal string) into an int64. A malformed or empty field parses as 0.
func internalDateMillis(m *domain.Message) int64 {
	n, err := strconv.ParseInt(m.InternalDate, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func internalDateAfter(m *domain.Message, t time.Time) bool {
	return internalDateMillis(m) > t.UnixMilli()
}

func internalDateBefore(m *domain.Message, t time.Time) bool {
	return internalDateMillis(m) < t.UnixMilli()
}

// parsePeriod implements §4.D.9: "[0-9]+[dmy]", m=30 days, y=365 days,
// bare integer = days, whitespace tolerant.
func parsePeriod(value string) (time.Duration, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	unit := byte('d')
	last := v[len(v)-1]
	if unicode.IsLetter(rune(last)) {
		unit = last
		v = v[:len(v)-1]
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	days := n
	switch unit {
	case 'm', 'M':
		days = n * 30
	case 'y', 'Y':
		days = n * 365
	case 'd', 'D':
		days = n
	default:
		return 0, false
	}
	return time.Duration(days) * 24 * time.Hour, true
}

// relativeTokens are the recognized relative date shorthands (§4.D.9).
var relativeTokens = map[string]int{
	"today":      0,
	"yesterday":  1,
	"last week":  7,
	"last month": 30,
	"last year":  365,
}

var dateLayouts = []string{
	"2006/01/02",
	"01/02/2006",
	"2006-01-02",
	"01-02-2006",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02-01-2006",
	"2006.01.02",
	"02.01.2006",
}

// parseDate implements §4.D.9's ordered layout attempts plus relative
// tokens. Returns ok=false on total failure; callers that consume the
// result (after:/before:/older_than:/newer_than:) all treat failure as
// an empty-set predicate per the Open Question resolution in SPEC_FULL.
func parseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	if days, ok := relativeTokens[lower]; ok {
		return time.Now().AddDate(0, 0, -days), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
