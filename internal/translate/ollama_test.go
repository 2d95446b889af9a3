package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rodrwan/webex-relay/internal/model"
)

func TestParseStepsFromNoisyOutput(t *testing.T) {
	raw := "Sure! Here are the steps:\n```json\n" +
		`[{"action":"launch","target":"https://x.test/"},{"action":"click","target":"Foo"},{"action":"done"}]` +
		"\n```\nLet me know if you need anything else."
	steps, err := ParseSteps(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Action != "launch" || steps[0].Target != "https://x.test/" {
		t.Fatalf("unexpected first step: %+v", steps[0])
	}
	if steps[2].Action != "done" || steps[2].Target != "" {
		t.Fatalf("unexpected last step: %+v", steps[2])
	}
}

func TestParseStepsFailures(t *testing.T) {
	for _, raw := range []string{"", "no array here", "[]", "[{broken"} {
		if _, err := ParseSteps(raw); !errors.Is(err, ErrNoSteps) {
			t.Fatalf("ParseSteps(%q) should yield ErrNoSteps, got %v", raw, err)
		}
	}
}

func TestStepsRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Fatalf("streaming must be disabled")
		}
		json.NewEncoder(w).Encode(generateResponse{
			Response: `[{"action":"launch","target":"https://x.test/"},{"action":"click","target":"Foo"},{"action":"done"}]`,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemma3:1b")
	steps, err := c.Steps(context.Background(), "Step1 :- launch :- https://x.test/\nStep2 :- click on Foo\nStep3 :- Done")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []model.Step{
		{Action: "launch", Target: "https://x.test/"},
		{Action: "click", Target: "Foo"},
		{Action: "done"},
	}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("step %d mismatch: %+v != %+v", i, steps[i], want[i])
		}
	}
}

func TestStepsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gemma3:1b")
	if _, err := c.Steps(context.Background(), "doc"); err == nil {
		t.Fatalf("expected error on 404")
	}
}
