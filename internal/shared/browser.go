package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var (
	getRuntime   = func() string { return runtime.GOOS }
	startCommand = func(c *exec.Cmd) error { return c.Start() }
)

// openerCommand returns the platform command used to hand a URL to the desktop.
func openerCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenURL opens target (an album cover, usually) in the default system browser.
//
// Only absolute http and https URLs are accepted.
func OpenURL(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not an http(s) url: %q", ErrInvalidInput, target)
	}

	cmd, err := openerCommand(getRuntime(), u.String())
	if err != nil {
		return err
	}

	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
