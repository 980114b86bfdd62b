package oauth

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Prompt presents the authorization URL to the operator.
type Prompt func(ctx context.Context, authURL string) error

// PrintPrompt writes "Browse to: <url>" to w (stdout when nil).
func PrintPrompt(w io.Writer) Prompt {
	if w == nil {
		w = os.Stdout
	}
	return func(_ context.Context, authURL string) error {
		_, err := fmt.Fprintf(w, "Browse to: %s\n", authURL)
		return err
	}
}

// BrowserPrompt prints the URL and also tries to open it in the default
// browser. Failing to launch the browser is not an error; the printed URL
// remains usable.
func BrowserPrompt(w io.Writer) Prompt {
	printURL := PrintPrompt(w)
	return func(ctx context.Context, authURL string) error {
		if err := printURL(ctx, authURL); err != nil {
			return err
		}
		_ = OpenBrowser(authURL)
		return nil
	}
}

// OpenBrowser opens the specified URL in the default web browser.
// It supports Linux, macOS, and Windows.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	// The browser keeps running after we return.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
