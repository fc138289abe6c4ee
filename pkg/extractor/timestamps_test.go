package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISOTimestamp(t *testing.T) {
	ts, ok := parseISOTimestamp("2024-03-15T12:30:45Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC), ts.UTC())

	ts, ok = parseISOTimestamp("2024-03-15T12:30:45+02:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC), ts.UTC())
}

func TestParseISOTimestampRejectsInvalid(t *testing.T) {
	_, ok := parseISOTimestamp("")
	assert.False(t, ok)

	_, ok = parseISOTimestamp("not a timestamp")
	assert.False(t, ok)

	// Pre-1970 timestamps break os.Chtimes on some platforms.
	_, ok = parseISOTimestamp("1969-12-31T23:59:59Z")
	assert.False(t, ok)
}
