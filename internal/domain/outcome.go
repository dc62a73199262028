package domain

import "github.com/msaeedsaeedi/stress/internal/stats"

// State is the execution loop's position in its lifecycle. Every state other
// than StateRunning is terminal.
type State int

const (
	StateRunning State = iota
	StateLimitReached
	StateStoppedOnError
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateLimitReached:
		return "limit-reached"
	case StateStoppedOnError:
		return "stopped-on-error"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is what the loop hands to reporting, however it terminated.
type Outcome struct {
	State    State
	Snapshot stats.Snapshot
}

func (o Outcome) Cancelled() bool {
	return o.State == StateCancelled
}
