package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	content := "jobs:\n  - TestPR\n  - TESTCDH\n  - \"\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write jobs file: %v", err)
	}
	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(jobs) != 2 || jobs[0] != "TestPR" || jobs[1] != "TESTCDH" {
		t.Fatalf("unexpected jobs: %v", jobs)
	}
}

func TestLoadJobsMissingFile(t *testing.T) {
	if _, err := LoadJobs(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("JENKINS_URL", "http://jenkins.internal/")
	cfg := Load()
	if cfg.Addr != ":3000" {
		t.Fatalf("addr default mismatch: %s", cfg.Addr)
	}
	if cfg.JenkinsURL != "http://jenkins.internal" {
		t.Fatalf("jenkins url should be trimmed: %s", cfg.JenkinsURL)
	}
	if len(cfg.AllowedJobs) == 0 {
		t.Fatalf("expected built-in allow-list")
	}
}
