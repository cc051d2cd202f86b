package utils

import (
	"strconv"
	"time"
)

// FormatTimestamp formats a timestamp to RFC3339
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTimestamp parses a timestamp from RFC3339 format
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// NowUTC returns the current time in UTC
func NowUTC() time.Time {
	return time.Now().UTC()
}

// UnixSecondsToTime converts a unix-seconds string (as returned by
// queue attribute APIs) to a time. Returns the zero time on any
// malformed input.
func UnixSecondsToTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
