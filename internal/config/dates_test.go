package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain date maps to local midnight in UTC", "2026-04-04", "2026-04-03T16:00:00.000Z"},
		{"canonical form passes through", "2026-04-03T16:00:00.000Z", "2026-04-03T16:00:00.000Z"},
		{"zulu without millis reformats", "2026-04-03T16:00:00Z", "2026-04-03T16:00:00.000Z"},
		{"offset timestamp converts to UTC", "2026-04-04T00:00:00+08:00", "2026-04-03T16:00:00.000Z"},
		{"naive timestamp treated as UTC", "2026-04-04T10:30:00", "2026-04-04T10:30:00.000Z"},
		{"surrounding whitespace ignored", "  2026-04-04  ", "2026-04-03T16:00:00.000Z"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "next tuesday", "2026/04/04", "2026-13-99"} {
		_, err := NormalizeDate(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestLocalDate(t *testing.T) {
	assert.Equal(t, "2026-04-04", LocalDate("2026-04-03T16:00:00.000Z"))
	// UTC midnight is already past local midnight.
	assert.Equal(t, "2026-04-04", LocalDate("2026-04-04T00:00:00.000Z"))
	// Unparseable input falls back to the raw string.
	assert.Equal(t, "garbage", LocalDate("garbage"))
}
