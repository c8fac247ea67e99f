package gtfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"00:00:00", 0},
		{"08:15:30", 8*3600 + 15*60 + 30},
		{"8:15:30", 8*3600 + 15*60 + 30},
		{"25:00:00", 25 * 3600},
		{"-01:30:00", -(3600 + 1800)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseTime("8:15")
	assert.Error(t, err)
	_, err = ParseTime("noon")
	assert.Error(t, err)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTime(0))
	assert.Equal(t, "08:15:30", FormatTime(8*3600+15*60+30))
	assert.Equal(t, "25:00:00", FormatTime(90000))
	assert.Equal(t, "-01:30:00", FormatTime(-5400))
}

func TestParseTimeFormatTimeRoundTrip(t *testing.T) {
	for _, s := range []string{"04:59:59", "12:00:00", "27:30:00"} {
		sec, err := ParseTime(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatTime(sec))
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("20240229")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "20240229", FormatDate(d))

	_, err = ParseDate("2024-02-29")
	assert.Error(t, err)
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, lerp(0, 0, 10, 10, 5))
	assert.Equal(t, 30.0, lerp(0, 20, 100, 120, 10))
	assert.Equal(t, 20.0, lerp(0, 20, 100, 120, 0))
}
