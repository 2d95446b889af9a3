// Package jenkins is a small client for triggering a parameterized job
// and following it through the queue and build lifecycle. All waiting
// goes through an injected clock so the polling deadlines are testable
// without real time.
package jenkins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rodrwan/webex-relay/internal/clock"
	"github.com/rodrwan/webex-relay/internal/model"
)

// ErrTimeout reports that a polling loop exceeded its bound without
// observing the expected lifecycle progress.
var ErrTimeout = errors.New("jenkins: polling timed out")

// HTTPError is any non-success response from Jenkins.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("jenkins responded %d: %s", e.Status, e.Body)
}

// Crumb is the CSRF token pair some Jenkins deployments require on
// POST requests. Fetching it is best-effort: a nil Crumb means the
// trigger proceeds without one.
type Crumb struct {
	Field string
	Value string
}

type PollConfig struct {
	QueueEvery   time.Duration
	QueueTimeout time.Duration
	BuildEvery   time.Duration
	BuildTimeout time.Duration
}

func (p *PollConfig) applyDefaults() {
	if p.QueueEvery <= 0 {
		p.QueueEvery = 1500 * time.Millisecond
	}
	if p.QueueTimeout <= 0 {
		p.QueueTimeout = 120 * time.Second
	}
	if p.BuildEvery <= 0 {
		p.BuildEvery = 2 * time.Second
	}
	if p.BuildTimeout <= 0 {
		p.BuildTimeout = 180 * time.Second
	}
}

type Client struct {
	baseURL  string
	user     string
	apiToken string
	poll     PollConfig
	clock    clock.Clock
	http     *http.Client
}

func NewClient(baseURL, user, apiToken string, poll PollConfig, clk clock.Clock) *Client {
	poll.applyDefaults()
	if clk == nil {
		clk = clock.Real()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		user:     user,
		apiToken: apiToken,
		poll:     poll,
		clock:    clk,
		http: &http.Client{
			Timeout: 30 * time.Second,
			// The trigger response is a redirect whose Location is the
			// queue item; it must be read, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// GetCrumb fetches the CSRF crumb. Any failure returns nil: not all
// deployments issue crumbs and the trigger must still proceed.
func (c *Client) GetCrumb(ctx context.Context) *Crumb {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/crumbIssuer/api/json", nil)
	if err != nil {
		return nil
	}
	req.SetBasicAuth(c.user, c.apiToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	var out struct {
		Field string `json:"crumbRequestField"`
		Crumb string `json:"crumb"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil
	}
	if out.Field == "" || out.Crumb == "" {
		return nil
	}
	return &Crumb{Field: out.Field, Value: out.Crumb}
}

// Trigger starts jobName with form-encoded params and returns the
// queue item URL taken from the redirect Location. Accepts 201 and 302
// as success; anything else is an *HTTPError.
func (c *Client) Trigger(ctx context.Context, jobName string, params map[string]string) (model.QueueHandle, error) {
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	endpoint := c.baseURL + "/job/" + url.PathEscape(jobName) + "/buildWithParameters"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.user, c.apiToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if crumb := c.GetCrumb(ctx); crumb != nil {
		req.Header.Set(crumb.Field, crumb.Value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("trigger %s: %w", jobName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "http") {
		loc = c.baseURL + loc
	}
	return model.QueueHandle(loc), nil
}

// WaitForBuild polls the queue item until Jenkins admits it and
// assigns a build. Models queue admission delay, distinct from build
// execution time.
func (c *Client) WaitForBuild(ctx context.Context, queue model.QueueHandle) (model.BuildHandle, error) {
	endpoint := strings.TrimRight(string(queue), "/") + "/api/json"
	deadline := c.clock.Now().Add(c.poll.QueueTimeout)
	for c.clock.Now().Before(deadline) {
		var item struct {
			Executable struct {
				Number int64  `json:"number"`
				URL    string `json:"url"`
			} `json:"executable"`
			Task struct {
				Name string `json:"name"`
			} `json:"task"`
		}
		if err := c.getJSON(ctx, endpoint, &item); err == nil && item.Executable.Number > 0 {
			buildURL := item.Executable.URL
			if buildURL == "" {
				buildURL = fmt.Sprintf("%s/job/%s/%d/", c.baseURL, url.PathEscape(item.Task.Name), item.Executable.Number)
			}
			return model.BuildHandle{URL: buildURL, Number: item.Executable.Number}, nil
		}
		c.clock.Sleep(c.poll.QueueEvery)
	}
	return model.BuildHandle{}, fmt.Errorf("queue did not produce a build within %s: %w", c.poll.QueueTimeout, ErrTimeout)
}

// WaitForResult polls the build by job name and number until a
// terminal result appears.
func (c *Client) WaitForResult(ctx context.Context, jobName string, number int64) (model.BuildResult, error) {
	endpoint := fmt.Sprintf("%s/job/%s/%d/api/json", c.baseURL, url.PathEscape(jobName), number)
	deadline := c.clock.Now().Add(c.poll.BuildTimeout)
	for c.clock.Now().Before(deadline) {
		var build struct {
			Result string `json:"result"`
		}
		if err := c.getJSON(ctx, endpoint, &build); err == nil && build.Result != "" {
			return model.BuildResult{Status: model.ParseBuildStatus(build.Result), Raw: build.Result}, nil
		}
		c.clock.Sleep(c.poll.BuildEvery)
	}
	return model.BuildResult{}, fmt.Errorf("build #%d did not finish within %s: %w", number, c.poll.BuildTimeout, ErrTimeout)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.user, c.apiToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{Status: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
