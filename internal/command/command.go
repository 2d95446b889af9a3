// Package command classifies an inbound chat message into one of a
// fixed set of intents. Classification is pure: no I/O, no hidden
// state, first matching rule wins.
package command

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindRunCI     Kind = "run_ci"
	KindRunConfig Kind = "run_config"
	KindRunTest   Kind = "run_test"
	KindEcho      Kind = "echo"
)

// Command is the classified intent of one message. Only the fields for
// the matching Kind are populated.
type Command struct {
	Kind Kind

	// KindRunCI
	JobName string
	Params  map[string]string

	// KindRunConfig. Only the first attachment is carried.
	AttachmentRef string

	// KindEcho
	Text string
}

var (
	reMention      = regexp.MustCompile(`@\S+`)
	reURL          = regexp.MustCompile(`(?i)https?://[^\s)]+`)
	reVersionLabel = regexp.MustCompile(`(?i)version\s*[:=]?\s*([A-Za-z0-9._-]+)`)
	reSemver       = regexp.MustCompile(`(?i)\bv(\d+\.\d+\.\d+)\b`)
	reBareNumber   = regexp.MustCompile(`\b(\d{2,})\b`)
)

// CleanMentions removes @mention tokens so a leading-mention and a
// bare-keyword phrasing classify the same.
func CleanMentions(text string) string {
	return strings.TrimSpace(reMention.ReplaceAllString(text, ""))
}

type input struct {
	raw      string
	cleaned  string
	combined string // raw + cleaned, lowercased, for keyword checks
	files    []string
}

type rule struct {
	match func(in input) bool
	build func(in input) Command
}

// Classifier evaluates an ordered list of predicate→variant rules.
// The order is the documented priority: jenkins, config, test, echo.
type Classifier struct {
	allowedJobs []string
	rules       []rule
}

func NewClassifier(allowedJobs []string) *Classifier {
	c := &Classifier{allowedJobs: allowedJobs}
	c.rules = []rule{
		{
			match: func(in input) bool { return strings.Contains(in.combined, "jenkins") },
			build: c.buildRunCI,
		},
		{
			match: func(in input) bool { return strings.Contains(in.combined, "config") },
			build: buildRunConfig,
		},
		{
			match: func(in input) bool { return strings.Contains(in.combined, "test") },
			build: func(input) Command { return Command{Kind: KindRunTest} },
		},
		{
			match: func(input) bool { return true },
			build: buildEcho,
		},
	}
	return c
}

// Classify derives the Command for one message. The raw and cleaned
// forms are both consulted case-insensitively; files are the message's
// attachment references.
func (c *Classifier) Classify(raw string, files []string) Command {
	cleaned := CleanMentions(raw)
	in := input{
		raw:      raw,
		cleaned:  cleaned,
		combined: strings.ToLower(raw + " " + cleaned),
		files:    files,
	}
	for _, r := range c.rules {
		if r.match(in) {
			return r.build(in)
		}
	}
	return Command{Kind: KindEcho, Text: raw}
}

func (c *Classifier) buildRunCI(in input) Command {
	cmd := Command{Kind: KindRunCI, Params: map[string]string{}}
	text := in.raw + " " + in.cleaned
	for _, job := range c.allowedJobs {
		if strings.Contains(strings.ToLower(text), strings.ToLower(job)) {
			cmd.JobName = job
			break
		}
	}
	if u := reURL.FindString(text); u != "" {
		cmd.Params["INSTANCE_URL"] = u
	}
	if v := extractVersion(text); v != "" {
		cmd.Params["VERSION"] = v
	}
	return cmd
}

// extractVersion tries the explicit label first, then a semver token,
// then a bare 2+-digit number. Best-effort: on ambiguous input the
// first match of the first layer wins.
func extractVersion(text string) string {
	if m := reVersionLabel.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	if m := reSemver.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	if m := reBareNumber.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	return ""
}

func buildRunConfig(in input) Command {
	cmd := Command{Kind: KindRunConfig}
	if len(in.files) > 0 {
		cmd.AttachmentRef = in.files[0]
	}
	return cmd
}

func buildEcho(in input) Command {
	text := in.cleaned
	if text == "" {
		text = in.raw
	}
	return Command{Kind: KindEcho, Text: text}
}
