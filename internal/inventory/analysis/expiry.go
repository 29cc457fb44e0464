package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ExpiryStatus classifies how close a stock item is to its expiry date.
type ExpiryStatus string

const (
	StatusExpired    ExpiryStatus = "kadaluarsa"
	StatusNearExpiry ExpiryStatus = "hampir_kadaluarsa"
	StatusCaution    ExpiryStatus = "perhatian"
	StatusSafe       ExpiryStatus = "aman"
	StatusUnknown    ExpiryStatus = "unknown"
)

// Urgency tiers, 3 = most urgent.
const (
	UrgencyNone    = 0
	UrgencyCaution = 1
	UrgencyNear    = 2
	UrgencyExpired = 3
)

// Expiry thresholds in days.
const (
	nearExpiryDays = 30
	cautionDays    = 90
)

// ExpiryResult is the evaluator output. DaysLeft is nil when the expiry
// is unknown.
type ExpiryResult struct {
	DaysLeft *int         `json:"days_left"`
	Status   ExpiryStatus `json:"status"`
	Urgency  int          `json:"urgency"`
}

// Stock records imported from the pharmacy's spreadsheets carry expiry
// tokens like "OKT.27" (October 2027) next to plain ISO dates.
var monthTokenRe = regexp.MustCompile(`^([A-Z]{3,4})[./\- ]?(\d{2})$`)

var monthAbbrevs = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MEI": time.May,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AGU": time.August,
	"AGT": time.August,
	"AUG": time.August,
	"SEP": time.September,
	"SEPT": time.September,
	"OKT": time.October,
	"OCT": time.October,
	"NOV": time.November,
	"DES": time.December,
	"DEC": time.December,
}

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

// ParseExpiry attempts each accepted encoding in a fixed priority order:
// ISO-like calendar dates first, then the month-abbreviation token. The
// second return value is false when no format matches.
func ParseExpiry(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	if m := monthTokenRe.FindStringSubmatch(strings.ToUpper(s)); m != nil {
		month, ok := monthAbbrevs[m[1]]
		if !ok {
			// Unrecognized abbreviation falls back to January rather
			// than rejecting the whole token.
			month = time.January
		}
		yy, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, false
		}
		// Day fixed at 28 as an end-of-month safety margin.
		return time.Date(2000+yy, month, 28, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// EvaluateExpiry computes days-remaining and an urgency tier for an
// expiry string. It is total: unparseable or absent input degrades to
// StatusUnknown with zero urgency instead of failing.
func EvaluateExpiry(raw string, today time.Time) ExpiryResult {
	expiry, ok := ParseExpiry(raw)
	if !ok {
		return ExpiryResult{Status: StatusUnknown, Urgency: UrgencyNone}
	}

	days := daysBetween(today, expiry)

	result := ExpiryResult{DaysLeft: &days}
	switch {
	case days < 0:
		result.Status = StatusExpired
		result.Urgency = UrgencyExpired
	case days <= nearExpiryDays:
		result.Status = StatusNearExpiry
		result.Urgency = UrgencyNear
	case days <= cautionDays:
		result.Status = StatusCaution
		result.Urgency = UrgencyCaution
	default:
		result.Status = StatusSafe
		result.Urgency = UrgencyNone
	}

	return result
}

// daysBetween returns the calendar-day difference between two instants,
// ignoring time-of-day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
