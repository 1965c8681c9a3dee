package client

import (
	"math/rand"
	"time"
)

// backoffJitter is the fraction of random spread applied to each delay so a
// fleet of clients does not hammer a recovering server in lockstep.
const backoffJitter = 0.2

// backoff computes reconnect delays: exponential doubling from base up to
// max, with ±20% jitter. Reset returns to the base delay after a sustained
// successful connection.
type backoff struct {
	base    time.Duration
	max     time.Duration
	attempt int
	rng     *rand.Rand
}

func newBackoff(base, max time.Duration) *backoff {
	return &backoff{
		base: base,
		max:  max,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay before the next connection attempt and advances
// the schedule.
func (b *backoff) Next() time.Duration {
	// base<<attempt overflows for large bases or attempt counts, so
	// compare against the cap in shifted-down form instead.
	d := b.max
	if b.attempt < 63 && b.base <= b.max>>b.attempt {
		d = b.base << b.attempt
	}
	b.attempt++

	spread := 1 + (b.rng.Float64()*2-1)*backoffJitter
	return time.Duration(float64(d) * spread)
}

// Reset returns the schedule to the base delay.
func (b *backoff) Reset() {
	b.attempt = 0
}

// Attempt returns the number of delays handed out since the last reset.
func (b *backoff) Attempt() int {
	return b.attempt
}
