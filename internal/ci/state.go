package ci

// Phase is one stage of the trigger/poll lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseTriggering Phase = "triggering"
	PhaseQueued     Phase = "queued"
	PhaseBuilding   Phase = "building"
	PhaseResolved   Phase = "resolved"
	PhaseFailed     Phase = "failed"
)

// PhaseFailed is reachable from every non-terminal phase; the rest of
// the lifecycle moves strictly forward.
var allowedTransitions = map[Phase]map[Phase]bool{
	PhaseIdle: {
		PhaseTriggering: true,
		PhaseFailed:     true,
	},
	PhaseTriggering: {
		PhaseQueued: true,
		PhaseFailed: true,
	},
	PhaseQueued: {
		PhaseBuilding: true,
		PhaseFailed:   true,
	},
	PhaseBuilding: {
		PhaseResolved: true,
		PhaseFailed:   true,
	},
}

func CanTransition(from, to Phase) bool {
	if from == to {
		return true
	}
	if next, ok := allowedTransitions[from]; ok {
		return next[to]
	}
	return false
}

func IsTerminalPhase(p Phase) bool {
	return p == PhaseResolved || p == PhaseFailed
}
