// Package browser backs the step executor with a real Chrome session
// via chromedp. It is a thin adapter: one session per Open, torn down
// by Close.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/rodrwan/webex-relay/internal/steps"
)

const stepTimeout = 30 * time.Second

type Driver struct {
	headless bool
}

func NewDriver(headless bool) *Driver {
	return &Driver{headless: headless}
}

func (d *Driver) Open(ctx context.Context) (steps.Session, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if !d.headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	// An empty Run forces the browser process to start now, so a
	// missing Chrome binary fails the open, not the first step.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return &session{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

type session struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

func (s *session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, stepTimeout)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// ClickText clicks the first element whose direct text loosely matches
// text, case-insensitively.
func (s *session) ClickText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, stepTimeout)
	defer cancel()
	xpath := textMatchXPath(text)
	if err := chromedp.Run(runCtx, chromedp.Click(xpath, chromedp.BySearch, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %q: %w", text, err)
	}
	return nil
}

func (s *session) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelBrowser()
	s.cancelAlloc()
	return err
}

const (
	xpathUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	xpathLower = "abcdefghijklmnopqrstuvwxyz"
)

// textMatchXPath selects elements carrying a text node that contains
// the target, lowercasing both sides for the loose match.
func textMatchXPath(text string) string {
	return fmt.Sprintf(
		"//*[text()[contains(translate(., '%s', '%s'), %s)]]",
		xpathUpper, xpathLower, xpathLiteral(strings.ToLower(text)),
	)
}

// xpathLiteral quotes an arbitrary string as an XPath 1.0 literal,
// which has no escape syntax for quotes.
func xpathLiteral(v string) string {
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	parts := strings.Split(v, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
