package policy

import "testing"

func TestEvaluate(t *testing.T) {
	e := NewEngine([]string{"TestPR", "TESTCDH"})
	if got := e.Evaluate("testpr"); got.Decision != Allow || got.Reason != "TestPR" {
		t.Fatalf("expected allow with canonical name, got %+v", got)
	}
	if got := e.Evaluate("DeployProd"); got.Decision != Deny {
		t.Fatalf("expected deny, got %v", got.Decision)
	}
	if got := e.Evaluate("  "); got.Decision != Deny {
		t.Fatalf("expected deny for empty name, got %v", got.Decision)
	}
}
