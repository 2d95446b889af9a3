// Package translate turns free document text into an ordered step
// sequence via a local Ollama model. The model is treated as an opaque
// collaborator with a JSON-array contract; anything unparseable is a
// translation failure.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rodrwan/webex-relay/internal/model"
)

// ErrNoSteps reports that the model produced no parseable step array.
var ErrNoSteps = errors.New("translate: no steps found in model output")

const promptTemplate = `You are an automation planner.
Convert the following document into a JSON array of steps.
Each step must be an object: { "action": string, "target": string? }.
Valid actions: "launch", "click", "done".
Doc:
%s`

type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewClient(baseURL, modelName string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Steps translates docText into an ordered step sequence. The order of
// the returned slice is the execution order; nothing is reordered or
// deduplicated.
func (c *Client) Steps(ctx context.Context, docText string) ([]model.Step, error) {
	payload, _ := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(promptTemplate, docText),
		Stream: false,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama generate failed with %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	return ParseSteps(out.Response)
}

// ParseSteps extracts the first JSON array from raw model output,
// which usually surrounds it with prose or code fences. Empty input or
// an empty array yields ErrNoSteps.
func ParseSteps(raw string) ([]model.Step, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoSteps
	}
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, ErrNoSteps
	}
	var steps []model.Step
	if err := json.Unmarshal([]byte(raw[start:end+1]), &steps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSteps, err)
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return steps, nil
}
