package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"intra42/internal/oauth"
)

// WaitIndicator shows a spinner while the authorization code flow waits for
// the browser redirect.
type WaitIndicator struct {
	out   io.Writer
	quiet bool

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewWaitIndicator creates an indicator writing to out. A quiet indicator
// never shows a spinner.
func NewWaitIndicator(out io.Writer, quiet bool) *WaitIndicator {
	return &WaitIndicator{out: out, quiet: quiet}
}

// Wrap returns a prompt that runs prompt and then starts the spinner.
func (w *WaitIndicator) Wrap(prompt oauth.Prompt) oauth.Prompt {
	return func(ctx context.Context, authURL string) error {
		if err := prompt(ctx, authURL); err != nil {
			return err
		}
		w.Start()
		return nil
	}
}

// Start shows the spinner.
func (w *WaitIndicator) Start() {
	if w.quiet {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.spinner != nil {
		return
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w.out))
	s.Suffix = " Waiting for the browser redirect..."
	s.Start()
	w.spinner = s
}

// Stop hides the spinner. It is safe to call when the spinner never started.
func (w *WaitIndicator) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.spinner == nil {
		return
	}
	w.spinner.Stop()
	w.spinner = nil
}

// Active reports whether the spinner has been started and not stopped.
func (w *WaitIndicator) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spinner != nil
}
