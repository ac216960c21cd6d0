package service

import "time"

// RemainingSeconds computes how much of a timed attempt is left:
// duration*60 minus whole elapsed seconds, clamped at zero. Callers read
// time.Now() once per request and thread it through so every check within
// one request sees the same instant.
func RemainingSeconds(startedAt time.Time, durationMinutes int, now time.Time) int {
	elapsed := int(now.Sub(startedAt) / time.Second)
	remaining := durationMinutes*60 - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the attempt's timer has run out.
func Expired(startedAt time.Time, durationMinutes int, now time.Time) bool {
	return RemainingSeconds(startedAt, durationMinutes, now) <= 0
}
