package idle

import (
	"fmt"
	"time"
)

// Policy holds the idle budget and the warning window that follows it.
type Policy struct {
	Timeout time.Duration // idle budget; <= 0 disables enforcement
	Grace   time.Duration // additional window where only keep-alive extends
}

// Enabled reports whether the policy enforces anything.
func (p Policy) Enabled() bool {
	return p.Timeout > 0
}

// Validate rejects negative durations.
func (p Policy) Validate() error {
	if p.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidPolicy, p.Timeout)
	}
	if p.Grace < 0 {
		return fmt.Errorf("%w: grace must not be negative, got %s", ErrInvalidPolicy, p.Grace)
	}
	return nil
}

// Decision is the outcome of a single evaluation.
type Decision struct {
	Phase Phase

	// Extend is true when the caller must record now as the new last activity.
	Extend bool

	// Remaining is the time left before the next phase boundary, measured
	// against the record as it stands after Extend is applied: the grace
	// boundary while active, hard expiry while in grace. Only meaningful
	// when HasRemaining is true.
	Remaining    time.Duration
	HasRemaining bool

	// Elapsed is the idle time observed before this request. Zero on first touch.
	Elapsed time.Duration

	// Seeded is true when no prior activity existed.
	Seeded bool
}

// Evaluate computes the phase for a request observed at now, given the last
// recorded activity (zero value when the session has not been seeded yet).
// keepAlive must be true only for the designated keep-alive action.
func Evaluate(now, lastActivity time.Time, policy Policy, keepAlive bool) Decision {
	if !policy.Enabled() {
		return Decision{Phase: PhaseActive}
	}

	if lastActivity.IsZero() {
		return Decision{
			Phase:        PhaseActive,
			Extend:       true,
			Remaining:    policy.Timeout,
			HasRemaining: true,
			Seeded:       true,
		}
	}

	// A record written by a process whose clock runs ahead must not
	// produce a negative idle time.
	elapsed := max(now.Sub(lastActivity), 0)
	grace := max(policy.Grace, 0)
	hardLimit := policy.Timeout + grace

	switch {
	case elapsed > hardLimit:
		return Decision{
			Phase:        PhaseExpired,
			HasRemaining: true,
			Elapsed:      elapsed,
		}
	case elapsed > policy.Timeout:
		if keepAlive {
			return Decision{
				Phase:        PhaseGrace,
				Extend:       true,
				Remaining:    policy.Timeout,
				HasRemaining: true,
				Elapsed:      elapsed,
			}
		}
		return Decision{
			Phase:        PhaseGrace,
			Remaining:    hardLimit - elapsed,
			HasRemaining: true,
			Elapsed:      elapsed,
		}
	default:
		return Decision{
			Phase:        PhaseActive,
			Extend:       true,
			Remaining:    policy.Timeout,
			HasRemaining: true,
			Elapsed:      elapsed,
		}
	}
}
