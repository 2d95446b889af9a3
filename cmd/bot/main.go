package main

import (
	"log"
	"net/http"
	"os"

	"github.com/rodrwan/webex-relay/internal/browser"
	"github.com/rodrwan/webex-relay/internal/ci"
	"github.com/rodrwan/webex-relay/internal/clock"
	"github.com/rodrwan/webex-relay/internal/command"
	"github.com/rodrwan/webex-relay/internal/config"
	"github.com/rodrwan/webex-relay/internal/dispatch"
	"github.com/rodrwan/webex-relay/internal/docpipe"
	"github.com/rodrwan/webex-relay/internal/jenkins"
	"github.com/rodrwan/webex-relay/internal/policy"
	"github.com/rodrwan/webex-relay/internal/steps"
	"github.com/rodrwan/webex-relay/internal/translate"
	"github.com/rodrwan/webex-relay/internal/webex"
)

func main() {
	cfg := config.Load()
	if err := os.MkdirAll(cfg.TmpDir, 0o755); err != nil {
		log.Fatalf("create tmp dir: %v", err)
	}

	webexClient := webex.NewClient(cfg.WebexAPIBaseURL, cfg.WebexBotToken)
	jenkinsClient := jenkins.NewClient(cfg.JenkinsURL, cfg.JenkinsUser, cfg.JenkinsAPIToken, jenkins.PollConfig{
		QueueEvery:   cfg.QueuePollEvery,
		QueueTimeout: cfg.QueuePollTimeout,
		BuildEvery:   cfg.BuildPollEvery,
		BuildTimeout: cfg.BuildPollTimeout,
	}, clock.Real())

	ciService := ci.NewService(jenkinsClient, webexClient, policy.NewEngine(cfg.AllowedJobs))
	pipeline := docpipe.NewPipeline(
		webexClient,
		translate.NewClient(cfg.OllamaURL, cfg.OllamaModel),
		steps.NewExecutor(browser.NewDriver(cfg.BrowserHeadless)),
		cfg.TmpDir,
	)

	srv := dispatch.NewServer(
		webexClient,
		command.NewClassifier(cfg.AllowedJobs),
		ciService,
		pipeline,
		cfg.WebexBotID,
	)

	mux := http.NewServeMux()
	srv.Register(mux)
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
