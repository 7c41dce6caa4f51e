// Package idle decides, for a single request, whether an authenticated
// session is still within its idle budget, inside the grace window that
// precedes termination, or past hard expiry.
//
// The decision is a pure function of the current time, the last recorded
// activity, the configured Policy and whether the request is an explicit
// keep-alive. It performs no I/O and has no hidden state, so the same inputs
// always produce the same Decision.
//
// # Phases
//
//	elapsed <= timeout                  -> PhaseActive,  activity is extended
//	timeout < elapsed <= timeout+grace  -> PhaseGrace,   extended only by keep-alive
//	elapsed > timeout+grace             -> PhaseExpired, never extended
//
// Ordinary traffic inside the idle window silently extends the session. Once
// the grace window is entered only an explicit keep-alive extends it, so
// background polling cannot mask real inactivity. A keep-alive that arrives
// after hard expiry does not resurrect the session.
//
// # Usage
//
//	policy := idle.Policy{Timeout: 15 * time.Minute, Grace: 2 * time.Minute}
//	d := idle.Evaluate(now, lastActivity, policy, isKeepAlive)
//	switch d.Phase {
//	case idle.PhaseExpired:
//		// log out and reject
//	default:
//		if d.Extend {
//			// persist now as the new last activity
//		}
//	}
//
// A zero Timeout disables enforcement: every request is PhaseActive and
// nothing is written.
package idle
