// Package browser hands article links to the operator's desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Open validates rawURL and launches the platform's URL handler without
// waiting for it to exit.
func Open(rawURL string) error {
	u, err := validate(rawURL)
	if err != nil {
		return err
	}
	return command(runtime.GOOS, u).Start()
}

// validate accepts only absolute http(s) links. Article URLs come from the
// CMS, so anything else is refused before it reaches a shell handler.
func validate(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("refusing to open URL without a host: %q", rawURL)
	}
	return u.String(), nil
}

func command(goos, u string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", u)
	case "windows":
		// rundll32 avoids cmd /c start and its shell parsing
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		return exec.Command("xdg-open", u)
	}
}
