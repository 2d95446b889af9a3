package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/rodrwan/webex-relay/internal/model"
)

type fakeSession struct {
	navigations []string
	clicks      []string
	closed      bool
	navigateErr error
	clickErrFor map[string]error
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.navigations = append(f.navigations, url)
	return f.navigateErr
}

func (f *fakeSession) ClickText(_ context.Context, text string) error {
	f.clicks = append(f.clicks, text)
	return f.clickErrFor[text]
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

type fakeDriver struct {
	session *fakeSession
	openErr error
}

func (f *fakeDriver) Open(context.Context) (Session, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.session, nil
}

func sampleSequence() []model.Step {
	return []model.Step{
		{Action: "launch", Target: "https://x.test/"},
		{Action: "click", Target: "Foo"},
		{Action: "done"},
	}
}

func TestRunExecutesInOrder(t *testing.T) {
	sess := &fakeSession{}
	ex := NewExecutor(&fakeDriver{session: sess})
	results, err := ex.Run(context.Background(), sampleSequence())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(sess.navigations) != 1 || sess.navigations[0] != "https://x.test/" {
		t.Fatalf("expected one navigation: %v", sess.navigations)
	}
	if len(sess.clicks) != 1 || sess.clicks[0] != "Foo" {
		t.Fatalf("expected one click: %v", sess.clicks)
	}
	if !sess.closed {
		t.Fatalf("session must be closed after the run")
	}
}

func TestRunClickFailureDoesNotAbort(t *testing.T) {
	sess := &fakeSession{clickErrFor: map[string]error{"Missing": errors.New("no such element")}}
	ex := NewExecutor(&fakeDriver{session: sess})
	seq := []model.Step{
		{Action: "launch", Target: "https://x.test/"},
		{Action: "click", Target: "Missing"},
		{Action: "click", Target: "Present"},
		{Action: "done"},
	}
	results, err := ex.Run(context.Background(), seq)
	if err != nil {
		t.Fatalf("click failure must not abort the run: %v", err)
	}
	if len(results) != len(seq) {
		t.Fatalf("expected the run to reach the final step, got %d results", len(results))
	}
	if Failures(results) != 1 {
		t.Fatalf("expected one recorded failure, got %d", Failures(results))
	}
	if len(sess.clicks) != 2 {
		t.Fatalf("both clicks should be attempted: %v", sess.clicks)
	}
}

func TestRunLaunchFailureAborts(t *testing.T) {
	sess := &fakeSession{navigateErr: errors.New("dns failure")}
	ex := NewExecutor(&fakeDriver{session: sess})
	results, err := ex.Run(context.Background(), sampleSequence())
	if err == nil {
		t.Fatalf("launch failure must abort the run")
	}
	if len(results) != 0 {
		t.Fatalf("no steps should be recorded after an aborted launch: %v", results)
	}
	if len(sess.clicks) != 0 {
		t.Fatalf("no click should run after a failed launch")
	}
	if !sess.closed {
		t.Fatalf("session must be closed even on abort")
	}
}

func TestRunUnknownActionIsNoOp(t *testing.T) {
	sess := &fakeSession{}
	ex := NewExecutor(&fakeDriver{session: sess})
	results, err := ex.Run(context.Background(), []model.Step{{Action: "hover", Target: "x"}, {Action: "DONE"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 2 || Failures(results) != 0 {
		t.Fatalf("unknown actions should pass through: %v", results)
	}
	if len(sess.navigations) != 0 || len(sess.clicks) != 0 {
		t.Fatalf("no session calls expected")
	}
}

func TestRunOpenFailure(t *testing.T) {
	ex := NewExecutor(&fakeDriver{openErr: errors.New("browser missing")})
	if _, err := ex.Run(context.Background(), sampleSequence()); err == nil {
		t.Fatalf("expected open failure to surface")
	}
}
