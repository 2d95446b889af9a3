package ci

import (
	"context"
	"fmt"
	"strings"

	"github.com/rodrwan/webex-relay/internal/model"
	"github.com/rodrwan/webex-relay/internal/observability"
	"github.com/rodrwan/webex-relay/internal/policy"
)

// Notifier posts progress and result messages back to the room the
// command came from. The room is the only observable channel for this
// pipeline's outcome.
type Notifier interface {
	SendMessage(ctx context.Context, roomID, text string) error
}

// TriggerClient is the Jenkins surface the service depends on.
type TriggerClient interface {
	Trigger(ctx context.Context, jobName string, params map[string]string) (model.QueueHandle, error)
	WaitForBuild(ctx context.Context, queue model.QueueHandle) (model.BuildHandle, error)
	WaitForResult(ctx context.Context, jobName string, number int64) (model.BuildResult, error)
}

// Service drives one CI command through the
// trigger → queued → building → resolved lifecycle, posting a message
// on every transition. One Run per command, no retry, no cancel.
type Service struct {
	jenkins  TriggerClient
	notifier Notifier
	policy   *policy.Engine
}

func NewService(jenkins TriggerClient, notifier Notifier, pol *policy.Engine) *Service {
	return &Service{jenkins: jenkins, notifier: notifier, policy: pol}
}

// Run executes the full lifecycle for one command. Validation failures
// are reported to the room before any Jenkins request is made; a job
// outside the allow-list never produces network traffic.
func (s *Service) Run(ctx context.Context, roomID, jobName string, params map[string]string) error {
	if strings.TrimSpace(jobName) == "" {
		s.say(ctx, roomID, "I couldn't identify the job name. Try: `@jenkins run TestPR version 123 on https://...`")
		return nil
	}
	pd := s.policy.Evaluate(jobName)
	if pd.Decision == policy.Deny {
		s.say(ctx, roomID, fmt.Sprintf("Job %q is not allowed. Allowed: %s", jobName, strings.Join(s.policy.AllowedJobs(), ", ")))
		return nil
	}
	// Canonical allow-list spelling, so Jenkins sees the configured name.
	jobName = pd.Reason

	phase := PhaseIdle
	phase = s.advance(phase, PhaseTriggering)
	s.say(ctx, roomID, fmt.Sprintf("Triggering Jenkins job %s with %s", jobName, formatParams(params)))

	queue, err := s.jenkins.Trigger(ctx, jobName, params)
	if err != nil {
		return s.fail(ctx, roomID, phase, err)
	}
	phase = s.advance(phase, PhaseQueued)
	s.say(ctx, roomID, "Job queued: "+string(queue))

	build, err := s.jenkins.WaitForBuild(ctx, queue)
	if err != nil {
		return s.fail(ctx, roomID, phase, err)
	}
	phase = s.advance(phase, PhaseBuilding)
	s.say(ctx, roomID, "Build started: "+build.URL)

	result, err := s.jenkins.WaitForResult(ctx, jobName, build.Number)
	if err != nil {
		return s.fail(ctx, roomID, phase, err)
	}
	phase = s.advance(phase, PhaseResolved)
	s.say(ctx, roomID, "Build finished: result="+result.Raw)
	observability.Info("ci_resolved", observability.Fields{
		"job":    jobName,
		"build":  build.Number,
		"result": result.Raw,
	})
	return nil
}

func (s *Service) fail(ctx context.Context, roomID string, from Phase, err error) error {
	s.advance(from, PhaseFailed)
	s.say(ctx, roomID, "Jenkins error: "+err.Error())
	return err
}

func (s *Service) advance(from, to Phase) Phase {
	if !CanTransition(from, to) {
		observability.Warn("ci_invalid_transition", observability.Fields{
			"from": string(from),
			"to":   string(to),
		})
		return from
	}
	return to
}

func (s *Service) say(ctx context.Context, roomID, text string) {
	if err := s.notifier.SendMessage(ctx, roomID, text); err != nil {
		observability.Warn("ci_notify_failed", observability.Fields{"error": err.Error()})
	}
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return "no parameters"
	}
	parts := make([]string, 0, len(params))
	for _, k := range []string{"INSTANCE_URL", "VERSION"} {
		if v, ok := params[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	for k, v := range params {
		if k != "INSTANCE_URL" && k != "VERSION" {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, " ")
}
