// Package utils holds small string and time helpers shared by the command
// line tool and callers of the library.
package utils

import (
	"strings"
	"time"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102_1504"
)

// Timestamp formats t as YYYYMMDD when dateOnly is set and as
// YYYYMMDD_HHMM otherwise, in t's location.
func Timestamp(t time.Time, dateOnly bool) string {
	if dateOnly {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

// Now is Timestamp for the current local time.
func Now(dateOnly bool) string {
	return Timestamp(time.Now(), dateOnly)
}

// IsSubstr reports whether sub occurs in s, optionally ignoring case.
func IsSubstr(s, sub string, ignoreCase bool) bool {
	if ignoreCase {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	return strings.Contains(s, sub)
}
