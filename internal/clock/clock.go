// Package clock exposes the CLOCK_MONOTONIC time base systemd uses for
// ask-password deadlines.
package clock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Clock reports monotonic time in microseconds.
type Clock interface {
	NowMicros() (uint64, error)
}

// Monotonic reads CLOCK_MONOTONIC, the clock NotAfter values are expressed in.
type Monotonic struct{}

// NowMicros returns the current monotonic time in microseconds.
func (Monotonic) NowMicros() (uint64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, fmt.Errorf("clock_gettime monotonic: %w", err)
	}
	return uint64(ts.Sec)*1_000_000 + uint64(ts.Nsec)/1_000, nil
}

// Fixed is a Clock that always reports the same instant.
type Fixed uint64

func (f Fixed) NowMicros() (uint64, error) { return uint64(f), nil }
