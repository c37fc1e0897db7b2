package manager

// State is the stage a single search invocation is in.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateFetching
	StateRecording
	StateRendering
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateFetching:
		return "fetching"
	case StateRecording:
		return "recording"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
