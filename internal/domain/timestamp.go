package domain

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05"

// Now is the creation clock, truncated to the precision the store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FormatTimestamp renders t as UTC "YYYY-MM-DDTHH:MM:SS[.ffffff]". The
// fraction is omitted when the microsecond part is zero. The zero time renders
// as "".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	out := t.Format(timestampLayout)
	if us := t.Nanosecond() / 1000; us != 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	return out
}

// ParseTimestamp accepts FormatTimestamp output and RFC 3339.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(timestampLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
	}
	return t.UTC(), nil
}

// CreatedAtText is the persisted form of c's creation time: the stored text
// when the row came from a file, FormatTimestamp otherwise.
func CreatedAtText(c *Contact) string {
	if c.StoredCreatedAt != "" {
		return c.StoredCreatedAt
	}
	return FormatTimestamp(c.CreatedAt)
}
