package uplink

import "time"

// Backoff returns min(2^attempt, cap) * base.
func Backoff(attempt int, base time.Duration, cap int) time.Duration {
	if cap < 1 {
		cap = 1
	}
	if attempt < 0 {
		attempt = 0
	}
	mult := cap
	if attempt < 31 && 1<<attempt < cap {
		mult = 1 << attempt
	}
	return time.Duration(mult) * base
}
