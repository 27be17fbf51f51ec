package config

import (
	"fmt"
	"strings"
	"time"
)

// isoMillisZ is the canonical timestamp layout the upstream API expects:
// UTC ISO-8601 with milliseconds and a Z suffix.
const isoMillisZ = "2006-01-02T15:04:05.000Z"

// localUTCOffsetHours is the guest-facing timezone (GMT+8). Plain dates
// are interpreted as local midnight and converted to UTC.
const localUTCOffsetHours = 8

// NormalizeDate converts a date string to the canonical UTC form.
//
//	"2026-04-04"                 → "2026-04-03T16:00:00.000Z"
//	"2026-04-03T16:00:00.000Z"   → unchanged
//	any other ISO-8601 timestamp → converted to UTC
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty date")
	}
	if strings.HasSuffix(value, "Z") {
		if _, err := time.Parse(isoMillisZ, value); err == nil {
			return value, nil
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", value, err)
		}
		return t.UTC().Format(isoMillisZ), nil
	}
	if len(value) == 10 && strings.Count(value, "-") == 2 {
		localMidnight, err := time.Parse("2006-01-02", value)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", value, err)
		}
		return localMidnight.Add(-localUTCOffsetHours * time.Hour).UTC().Format(isoMillisZ), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Tolerate timestamps without a zone; treat them as UTC.
		t, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", value, err)
		}
	}
	return t.UTC().Format(isoMillisZ), nil
}

// LocalDate renders a canonical UTC timestamp back as the guest-facing
// YYYY-MM-DD date (GMT+8). Used in notification messages.
func LocalDate(isoUTC string) string {
	t, err := time.Parse(isoMillisZ, isoUTC)
	if err != nil {
		return isoUTC
	}
	return t.Add(localUTCOffsetHours * time.Hour).Format("2006-01-02")
}
