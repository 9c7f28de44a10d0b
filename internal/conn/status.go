package conn

import "fmt"

// Phase is the coarse connection state.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseConnected
	PhaseDisconnected
	PhaseRetryExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseDisconnected:
		return "disconnected"
	case PhaseRetryExhausted:
		return "retry-exhausted"
	default:
		return "unknown"
	}
}

// Status is the state machine's observable state. Retry is the number of
// consecutive failed attempts; the display text is derived from it.
type Status struct {
	Phase      Phase
	Retry      int
	MaxRetries int
}

func (s Status) String() string {
	switch s.Phase {
	case PhaseConnecting:
		return "Connecting..."
	case PhaseConnected:
		return "Connected!"
	case PhaseDisconnected:
		return fmt.Sprintf("Disconnected. Retrying... (%d/%d)", s.Retry, s.MaxRetries)
	case PhaseRetryExhausted:
		return "Disconnected. Retry limit reached. Please refresh to reconnect."
	default:
		return "Unknown"
	}
}
