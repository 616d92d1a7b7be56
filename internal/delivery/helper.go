package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"askcache/internal/secret"
)

// HelperError reports a reply helper that did not exit cleanly. ExitCode is
// -1 when the helper could not be started or was killed.
type HelperError struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *HelperError) Error() string {
	if e.Err != nil && e.ExitCode < 0 {
		return fmt.Sprintf("reply helper failed: %v", e.Err)
	}
	return fmt.Sprintf("reply helper exited with status %d", e.ExitCode)
}

func (e *HelperError) Unwrap() error { return e.Err }

// HelperChannel runs systemd-reply-password, through pkexec when Pkexec is
// set. The helper receives "1" or "0" and the socket path as arguments and
// the secret on stdin.
type HelperChannel struct {
	Pkexec string
	Reply  string
}

func (c *HelperChannel) Deliver(ctx context.Context, socket string, res secret.Result) error {
	var presence string
	switch res.Kind {
	case secret.Found:
		presence = "1"
	case secret.Cancel:
		presence = "0"
	default:
		return ErrNothingToDeliver
	}

	argv := c.command(presence, socket)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if res.Kind == secret.Found {
		cmd.Stdin = bytes.NewReader(res.Secret)
	}

	if err := cmd.Run(); err != nil {
		herr := &HelperError{ExitCode: -1, Output: output.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			herr.ExitCode = exitErr.ExitCode()
		}
		return herr
	}
	return nil
}

func (c *HelperChannel) command(presence, socket string) []string {
	if pkexec := strings.TrimSpace(c.Pkexec); pkexec != "" {
		return []string{pkexec, c.Reply, presence, socket}
	}
	return []string{c.Reply, presence, socket}
}
