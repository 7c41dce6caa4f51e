package idle

// Phase is the derived state of a session at evaluation time. It is never stored.
type Phase uint8

const (
	PhaseActive Phase = iota
	PhaseGrace
	PhaseExpired
)

// String returns the lowercase phase name used in logs, metrics and headers.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseGrace:
		return "grace"
	case PhaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}
