package policy

import (
	"strings"
)

type Decision string

const (
	Allow Decision = "allow"
	Deny  Decision = "deny"
)

type Result struct {
	Decision Decision
	Reason   string
}

// Engine gates remote CI triggers behind a fixed job allow-list. A
// denied job must never produce a network request.
type Engine struct {
	allowedJobs []string
}

func NewEngine(allowedJobs []string) *Engine {
	jobs := make([]string, len(allowedJobs))
	copy(jobs, allowedJobs)
	return &Engine{allowedJobs: jobs}
}

// AllowedJobs returns the allow-list in its configured order.
func (e *Engine) AllowedJobs() []string {
	out := make([]string, len(e.allowedJobs))
	copy(out, e.allowedJobs)
	return out
}

// Evaluate decides whether jobName may be triggered. Matching is
// case-insensitive; the canonical allow-list spelling is returned in
// Result.Reason so callers trigger the exact configured name.
func (e *Engine) Evaluate(jobName string) Result {
	norm := strings.ToLower(strings.TrimSpace(jobName))
	if norm == "" {
		return Result{Decision: Deny, Reason: "job name is empty"}
	}
	for _, a := range e.allowedJobs {
		if strings.ToLower(a) == norm {
			return Result{Decision: Allow, Reason: a}
		}
	}
	return Result{Decision: Deny, Reason: "job not in allow-list: " + strings.Join(e.allowedJobs, ", ")}
}
