package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 9, 5, 59, 0, time.UTC)

	assert.Equal(t, "20240307", Timestamp(ts, true))
	assert.Equal(t, "20240307_0905", Timestamp(ts, false))
}

func TestNow(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), Now(true))
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{4}$`), Now(false))
}

func TestIsSubstr(t *testing.T) {
	tests := []struct {
		s, sub     string
		ignoreCase bool
		want       bool
	}{
		{"Connection Timeout", "timeout", true, true},
		{"Connection Timeout", "timeout", false, false},
		{"Connection Timeout", "Timeout", false, true},
		{"anything", "", false, true},
		{"", "x", true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSubstr(tt.s, tt.sub, tt.ignoreCase), "%q in %q", tt.sub, tt.s)
	}
}
