package model

import "strings"

// StepAction is one unit of browser automation instruction produced by
// the translator.
type StepAction string

const (
	ActionLaunch StepAction = "launch"
	ActionClick  StepAction = "click"
	ActionDone   StepAction = "done"
)

// Step is one translated instruction. Target is required for launch
// and click, absent for done. Steps form an ordered sequence; order is
// execution order.
type Step struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// NormalizedAction lowercases the raw action for comparison against
// the known set.
func (s Step) NormalizedAction() StepAction {
	return StepAction(strings.ToLower(strings.TrimSpace(s.Action)))
}
