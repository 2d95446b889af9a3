package docpipe

import "regexp"

// The two repairs below re-segment documents that lost their line
// breaks during extraction. Both are heuristics tuned to the known
// "StepN :- ..." document shape, and both are no-ops on text that is
// already well formatted: each only fires when the break is missing.
var (
	// A Step token followed by a digit that is not already at the
	// start of a line gets a break inserted before it.
	reStepBreak = regexp.MustCompile(`([^\n])(Step\d)`)

	// A URL directly followed (same line) by a Step token gets a
	// break between them.
	reURLStep = regexp.MustCompile(`(https?://\S+?)[ \t]*Step`)
)

// Normalize applies the step-segmentation repairs. Idempotent:
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = reStepBreak.ReplaceAllString(text, "$1\n$2")
	text = reURLStep.ReplaceAllString(text, "$1\nStep")
	return text
}
