package xlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" INFO ", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, LevelInfo, got)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "INFO+2", Level(2).String())
}

func TestLevel_Text(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		text, err := l.MarshalText()
		require.NoError(t, err)

		var got Level
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, l, got)
	}

	l := LevelWarn
	assert.Error(t, l.UnmarshalText([]byte("loud")))
	assert.Equal(t, LevelWarn, l)
}
