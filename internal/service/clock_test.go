package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemainingSeconds(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		durationMinutes int
		now             time.Time
		want            int
	}{
		{"full budget at start", 30, start, 1800},
		{"partway through", 30, start.Add(10 * time.Minute), 1200},
		{"one second left", 30, start.Add(29*time.Minute + 59*time.Second), 1},
		{"exactly at the deadline", 30, start.Add(30 * time.Minute), 0},
		{"past the deadline clamps to zero", 30, start.Add(45 * time.Minute), 0},
		{"sub-second elapsed truncates", 30, start.Add(500 * time.Millisecond), 1800},
		{"one minute quiz", 1, start.Add(59 * time.Second), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingSeconds(start, tt.durationMinutes, tt.now))
		})
	}
}

func TestExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, Expired(start, 10, start.Add(9*time.Minute)))
	assert.False(t, Expired(start, 10, start.Add(9*time.Minute+59*time.Second)))
	assert.True(t, Expired(start, 10, start.Add(10*time.Minute)))
	assert.True(t, Expired(start, 10, start.Add(time.Hour)))
}
