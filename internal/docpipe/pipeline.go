// Package docpipe runs the document-to-browser-actions pipeline:
// acquire → download → extract → normalize → translate → execute. Each
// stage consumes the previous stage's output; a stage failure aborts
// the rest and reports a stage-specific message to the room.
package docpipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rodrwan/webex-relay/internal/extract"
	"github.com/rodrwan/webex-relay/internal/model"
	"github.com/rodrwan/webex-relay/internal/observability"
	"github.com/rodrwan/webex-relay/internal/steps"
	"github.com/rodrwan/webex-relay/internal/translate"
)

// Messaging is the chat surface the pipeline reports through and
// downloads attachments with.
type Messaging interface {
	SendMessage(ctx context.Context, roomID, text string) error
	DownloadFile(ctx context.Context, fileURL string) ([]byte, string, error)
}

// Translator converts extracted text into a step sequence.
type Translator interface {
	Steps(ctx context.Context, docText string) ([]model.Step, error)
}

// StepRunner executes the translated sequence in a browser session.
type StepRunner interface {
	Run(ctx context.Context, seq []model.Step) ([]steps.Result, error)
}

type Pipeline struct {
	messaging  Messaging
	translator Translator
	executor   StepRunner
	tmpDir     string
}

func NewPipeline(messaging Messaging, translator Translator, executor StepRunner, tmpDir string) *Pipeline {
	return &Pipeline{
		messaging:  messaging,
		translator: translator,
		executor:   executor,
		tmpDir:     tmpDir,
	}
}

// Run processes one config command. attachmentRef is the first
// attachment of the originating message, or empty when it had none.
func (p *Pipeline) Run(ctx context.Context, roomID, attachmentRef string) error {
	if attachmentRef == "" {
		p.say(ctx, roomID, "Please attach a .docx or .pdf file and try again.")
		return nil
	}
	p.say(ctx, roomID, "Got file: "+attachmentRef)

	data, filename, err := p.messaging.DownloadFile(ctx, attachmentRef)
	if err != nil {
		p.say(ctx, roomID, "Config failed: could not download the attachment: "+err.Error())
		return fmt.Errorf("download stage: %w", err)
	}
	localPath, err := p.stash(data, filename)
	if err != nil {
		p.say(ctx, roomID, "Config failed: could not store the attachment: "+err.Error())
		return fmt.Errorf("download stage: %w", err)
	}
	observability.Info("config_file_downloaded", observability.Fields{
		"path":  localPath,
		"bytes": len(data),
	})

	text := extract.Text(data, formatFor(filename))
	text = Normalize(text)

	seq, err := p.translator.Steps(ctx, text)
	if err != nil {
		if errors.Is(err, translate.ErrNoSteps) {
			p.say(ctx, roomID, "Could not parse any steps from the document.")
		} else {
			p.say(ctx, roomID, "Config failed: translation error: "+err.Error())
		}
		return fmt.Errorf("translate stage: %w", err)
	}

	p.say(ctx, roomID, fmt.Sprintf("Running %d step(s) from the document... (this may take a few seconds)", len(seq)))
	results, err := p.executor.Run(ctx, seq)
	if err != nil {
		p.say(ctx, roomID, "Config failed: "+err.Error())
		return fmt.Errorf("execute stage: %w", err)
	}
	if n := steps.Failures(results); n > 0 {
		p.say(ctx, roomID, fmt.Sprintf("Config completed with %d steps; %d click(s) could not find their target.", len(seq), n))
		return nil
	}
	p.say(ctx, roomID, fmt.Sprintf("Config completed successfully with %d steps.", len(seq)))
	return nil
}

// stash writes the attachment to a transient local file. The file is
// scoped to this dispatch cycle; nothing reads it back later.
func (p *Pipeline) stash(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(p.tmpDir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".docx"
	}
	path := filepath.Join(p.tmpDir, "upload-"+uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// formatFor defaults to docx when the platform reports no filename:
// that is the dominant upload shape this pipeline exists for.
func formatFor(filename string) extract.Format {
	if filename == "" {
		return extract.FormatDocx
	}
	return extract.DetectFormat(filename)
}

func (p *Pipeline) say(ctx context.Context, roomID, text string) {
	if err := p.messaging.SendMessage(ctx, roomID, text); err != nil {
		observability.Warn("docpipe_notify_failed", observability.Fields{"error": err.Error()})
	}
}
