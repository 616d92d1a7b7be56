// Package procprobe checks whether a requesting process is still running.
package procprobe

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Prober reports requester liveness.
type Prober interface {
	Alive(pid int) (bool, error)
}

// Signal probes with signal 0. ESRCH means the process is gone; any other
// failure is returned as an error.
type Signal struct{}

func (Signal) Alive(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("probe pid %d: invalid pid", pid)
	}
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	default:
		return false, fmt.Errorf("probe pid %d: %w", pid, err)
	}
}
