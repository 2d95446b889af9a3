package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr             string
	WebexAPIBaseURL  string
	WebexBotToken    string
	WebexBotID       string
	JenkinsURL       string
	JenkinsUser      string
	JenkinsAPIToken  string
	JobsFile         string
	AllowedJobs      []string
	QueuePollEvery   time.Duration
	QueuePollTimeout time.Duration
	BuildPollEvery   time.Duration
	BuildPollTimeout time.Duration
	OllamaURL        string
	OllamaModel      string
	TmpDir           string
	BrowserHeadless  bool
}

// defaultAllowedJobs is the built-in allow-list used when no jobs file
// is configured. Only these job names may ever be triggered remotely.
var defaultAllowedJobs = []string{"TestPR", "TESTCDH"}

func Load() Config {
	cfg := Config{
		Addr:             envOrDefault("ADDR", ":3000"),
		WebexAPIBaseURL:  strings.TrimRight(envOrDefault("WEBEX_API_BASE_URL", "https://webexapis.com/v1"), "/"),
		WebexBotToken:    os.Getenv("WEBEX_BOT_TOKEN"),
		WebexBotID:       os.Getenv("WEBEX_BOT_ID"),
		JenkinsURL:       strings.TrimRight(envOrDefault("JENKINS_URL", "http://localhost:8080"), "/"),
		JenkinsUser:      os.Getenv("JENKINS_USER"),
		JenkinsAPIToken:  os.Getenv("JENKINS_API_TOKEN"),
		JobsFile:         os.Getenv("JENKINS_JOBS_FILE"),
		AllowedJobs:      defaultAllowedJobs,
		QueuePollEvery:   durationOrDefault("JENKINS_QUEUE_POLL_INTERVAL", 1500*time.Millisecond),
		QueuePollTimeout: durationOrDefault("JENKINS_QUEUE_POLL_TIMEOUT", 120*time.Second),
		BuildPollEvery:   durationOrDefault("JENKINS_BUILD_POLL_INTERVAL", 2*time.Second),
		BuildPollTimeout: durationOrDefault("JENKINS_BUILD_POLL_TIMEOUT", 180*time.Second),
		OllamaURL:        strings.TrimRight(envOrDefault("OLLAMA_URL", "http://localhost:11434"), "/"),
		OllamaModel:      envOrDefault("OLLAMA_MODEL", "gemma3:1b"),
		TmpDir:           envOrDefault("TMP_DIR", "./tmp"),
		BrowserHeadless:  boolOrDefault("BROWSER_HEADLESS", true),
	}
	if cfg.JobsFile != "" {
		if jobs, err := LoadJobs(cfg.JobsFile); err == nil && len(jobs) > 0 {
			cfg.AllowedJobs = jobs
		}
	}
	return cfg
}

type jobsFile struct {
	Jobs []string `yaml:"jobs"`
}

// LoadJobs reads the allow-list of triggerable Jenkins job names from
// a YAML file of the form:
//
//	jobs:
//	  - TestPR
//	  - TESTCDH
func LoadJobs(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	var f jobsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse jobs file: %w", err)
	}
	out := make([]string, 0, len(f.Jobs))
	for _, j := range f.Jobs {
		j = strings.TrimSpace(j)
		if j != "" {
			out = append(out, j)
		}
	}
	return out, nil
}

func envOrDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func durationOrDefault(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return d
	}
	return parsed
}

func boolOrDefault(k string, d bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(k)))
	if v == "" {
		return d
	}
	return v == "1" || v == "true" || v == "yes"
}
