package ci

import "testing"

func TestCanTransition(t *testing.T) {
	if !CanTransition(PhaseIdle, PhaseTriggering) {
		t.Fatalf("idle -> triggering should be allowed")
	}
	if !CanTransition(PhaseQueued, PhaseBuilding) {
		t.Fatalf("queued -> building should be allowed")
	}
	if CanTransition(PhaseQueued, PhaseResolved) {
		t.Fatalf("queued must pass through building before resolving")
	}
	if !CanTransition(PhaseBuilding, PhaseFailed) {
		t.Fatalf("failed must be reachable from building")
	}
	if CanTransition(PhaseResolved, PhaseTriggering) {
		t.Fatalf("resolved is terminal")
	}
}

func TestIsTerminalPhase(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhaseTriggering, PhaseQueued, PhaseBuilding} {
		if IsTerminalPhase(p) {
			t.Fatalf("%s should not be terminal", p)
		}
	}
	if !IsTerminalPhase(PhaseResolved) || !IsTerminalPhase(PhaseFailed) {
		t.Fatalf("resolved and failed are terminal")
	}
}
