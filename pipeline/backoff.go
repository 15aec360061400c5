package pipeline

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffPolicy computes the wait before a retry from the attempt number.
// Delay is pure and deterministic for fixed parameters; jitter, when enabled,
// is exposed separately through JitteredDelay so tests stay deterministic.
type BackoffPolicy struct {
	Base       time.Duration
	Cap        time.Duration
	Multiplier float64
	// Jitter is the maximum random fraction of the raw delay added by
	// JitteredDelay, in [0, 1]. 0 disables jitter.
	Jitter float64
}

// DefaultBackoffPolicy doubles from 100ms and caps at 1s.
var DefaultBackoffPolicy = BackoffPolicy{
	Base:       100 * time.Millisecond,
	Cap:        1 * time.Second,
	Multiplier: 2.0,
}

// Delay returns the raw backoff before the attempt following attemptNumber.
// attemptNumber is 1-based: Delay(1) is the wait between the first and
// second tries. Values below 1 are treated as 1.
func (p BackoffPolicy) Delay(attemptNumber int) time.Duration {
	if attemptNumber < 1 {
		attemptNumber = 1
	}
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2.0
	}
	d := float64(p.Base) * math.Pow(mult, float64(attemptNumber-1))
	if p.Cap > 0 && d > float64(p.Cap) {
		d = float64(p.Cap)
	}
	return time.Duration(d)
}

// JitteredDelay returns Delay plus a random fraction of it, bounded by
// Jitter. With Jitter = 0 it equals Delay.
func (p BackoffPolicy) JitteredDelay(attemptNumber int) time.Duration {
	d := p.Delay(attemptNumber)
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	frac := p.Jitter
	if frac > 1 {
		frac = 1
	}
	max := int64(float64(d) * frac)
	if max <= 0 {
		return d
	}
	return d + time.Duration(rand.Int64N(max))
}
