// Package dispatch is the entry point for inbound Webex events: it
// acknowledges the platform immediately, then runs one asynchronous
// dispatch cycle per event, routing the fetched message to the CI or
// document pipeline.
package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rodrwan/webex-relay/internal/command"
	"github.com/rodrwan/webex-relay/internal/model"
	"github.com/rodrwan/webex-relay/internal/observability"
)

// Messenger is the Webex surface the dispatcher needs.
type Messenger interface {
	GetMessage(ctx context.Context, id string) (model.Message, error)
	SendMessage(ctx context.Context, roomID, text string) error
}

// CIService runs one jenkins command end to end.
type CIService interface {
	Run(ctx context.Context, roomID, jobName string, params map[string]string) error
}

// ConfigPipeline runs one config command end to end.
type ConfigPipeline interface {
	Run(ctx context.Context, roomID, attachmentRef string) error
}

type Server struct {
	messenger  Messenger
	classifier *command.Classifier
	ci         CIService
	docs       ConfigPipeline
	botID      string
}

func NewServer(messenger Messenger, classifier *command.Classifier, ci CIService, docs ConfigPipeline, botID string) *Server {
	return &Server{
		messenger:  messenger,
		classifier: classifier,
		ci:         ci,
		docs:       docs,
		botID:      botID,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/webhook", s.handleWebhook)
}

// handleWebhook acknowledges before any downstream work: Webex retries
// on timeout, and a slow pipeline must never cause redelivery storms.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var ev model.InboundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		observability.Warn("webhook_bad_payload", observability.Fields{"error": err.Error()})
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusOK)
	go s.Dispatch(context.Background(), ev)
}

// Dispatch runs one full cycle for an event: fetch, filter, classify,
// route. Every branch reports its own outcome to the originating room;
// a branch failure is logged here and never crosses into other events.
func (s *Server) Dispatch(ctx context.Context, ev model.InboundEvent) {
	cycle := uuid.NewString()
	if ev.Data.ID == "" {
		observability.Warn("webhook_missing_message_id", observability.Fields{"cycle": cycle})
		return
	}
	msg, err := s.messenger.GetMessage(ctx, ev.Data.ID)
	if err != nil {
		observability.Error("fetch_message_failed", observability.Fields{
			"cycle":   cycle,
			"message": ev.Data.ID,
			"error":   err.Error(),
		})
		return
	}
	if s.isSelf(msg) {
		observability.Info("ignoring_own_message", observability.Fields{"cycle": cycle, "message": msg.ID})
		return
	}

	files := msg.Files
	if len(files) == 0 {
		files = ev.Data.Files
	}
	cmd := s.classifier.Classify(msg.Text, files)
	observability.Info("dispatch", observability.Fields{
		"cycle":   cycle,
		"message": msg.ID,
		"room":    msg.RoomID,
		"from":    msg.PersonEmail,
		"kind":    string(cmd.Kind),
	})

	switch cmd.Kind {
	case command.KindRunCI:
		if err := s.ci.Run(ctx, msg.RoomID, cmd.JobName, cmd.Params); err != nil {
			observability.Error("ci_command_failed", observability.Fields{"cycle": cycle, "error": err.Error()})
		}
	case command.KindRunConfig:
		if err := s.docs.Run(ctx, msg.RoomID, cmd.AttachmentRef); err != nil {
			observability.Error("config_command_failed", observability.Fields{"cycle": cycle, "error": err.Error()})
		}
	case command.KindRunTest:
		s.reply(ctx, cycle, msg.RoomID, "Got the test command. Test runs are not wired up yet.")
	default:
		s.reply(ctx, cycle, msg.RoomID, "Hello! I received your message: \""+cmd.Text+"\"")
	}
}

// isSelf drops the bot's own messages to prevent reply loops. Person
// id is authoritative; the email-domain heuristic covers deployments
// where the bot id is not configured.
func (s *Server) isSelf(msg model.Message) bool {
	if s.botID != "" && msg.PersonID == s.botID {
		return true
	}
	return strings.Contains(msg.PersonEmail, "@webex.bot")
}

func (s *Server) reply(ctx context.Context, cycle, roomID, text string) {
	if err := s.messenger.SendMessage(ctx, roomID, text); err != nil {
		observability.Warn("reply_failed", observability.Fields{"cycle": cycle, "error": err.Error()})
	}
}
