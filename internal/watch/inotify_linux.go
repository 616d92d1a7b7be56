//go:build linux

package watch

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

var inotifyOps = []struct {
	op   Op
	mask uint32
}{
	{CloseWrite, unix.IN_CLOSE_WRITE},
	{MovedTo, unix.IN_MOVED_TO},
	{MovedFrom, unix.IN_MOVED_FROM},
	{Create, unix.IN_CREATE},
	{Delete, unix.IN_DELETE},
	{Modify, unix.IN_MODIFY},
	{Overflow, unix.IN_Q_OVERFLOW},
}

func toInotifyMask(op Op) uint32 {
	var mask uint32
	for _, entry := range inotifyOps {
		if op&entry.op != 0 {
			mask |= entry.mask
		}
	}
	return mask
}

func fromInotifyMask(mask uint32) Op {
	var op Op
	for _, entry := range inotifyOps {
		if mask&entry.mask != 0 {
			op |= entry.op
		}
	}
	return op
}

type inotifyBackend struct {
	path        string
	fd          int
	wakeFd      int
	bufSize     int
	maxAttempts int
}

func openInotify(path string, mask Op, opts Options) (backend, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("%w: inotify_init1: %w", ErrSetup, err)
	}
	b := &inotifyBackend{
		path:        path,
		fd:          fd,
		wakeFd:      -1,
		bufSize:     opts.ReadBufferSize,
		maxAttempts: opts.MaxReadAttempts,
	}

	wakeFd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		_ = b.close()
		return nil, fmt.Errorf("%w: eventfd: %w", ErrSetup, err)
	}
	b.wakeFd = wakeFd

	if _, err := unix.InotifyAddWatch(fd, path, toInotifyMask(mask)|unix.IN_ONLYDIR); err != nil {
		_ = b.close()
		return nil, fmt.Errorf("%w: inotify_add_watch %s: %w", ErrSetup, path, err)
	}
	return b, nil
}

func (b *inotifyBackend) poll(ctx context.Context, timeout time.Duration) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, b.wake)
	defer stop()

	fds := []unix.PollFd{
		{Fd: int32(b.fd), Events: unix.POLLIN},
		{Fd: int32(b.wakeFd), Events: unix.POLLIN},
	}
	ms := pollMillis(timeout)
	for {
		_, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("poll inotify: %w", err)
		}
		break
	}

	if fds[1].Revents&unix.POLLIN != 0 {
		b.drainWake()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if fds[0].Revents&unix.POLLIN == 0 {
		return nil, nil
	}
	return b.read()
}

func pollMillis(timeout time.Duration) int {
	switch {
	case timeout < 0:
		return -1
	case timeout == 0:
		return 0
	case timeout < time.Millisecond:
		return 1
	default:
		return int(timeout / time.Millisecond)
	}
}

// read pulls all pending records, growing the buffer when the kernel reports
// EINVAL (next record larger than the buffer).
func (b *inotifyBackend) read() ([]Event, error) {
	for multiplier := 1; multiplier <= b.maxAttempts; {
		buf := make([]byte, b.bufSize*multiplier)
		n, err := unix.Read(b.fd, buf)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EINVAL):
			multiplier++
			continue
		case errors.Is(err, unix.EAGAIN):
			return nil, nil
		case err != nil:
			return nil, fmt.Errorf("read inotify: %w", err)
		}
		return b.decode(buf[:n])
	}
	return nil, fmt.Errorf("%w: %d attempts starting at %d bytes", ErrBufferExhausted, b.maxAttempts, b.bufSize)
}

func (b *inotifyBackend) decode(data []byte) ([]Event, error) {
	var events []Event
	for offset := 0; offset < len(data); {
		if offset+unix.SizeofInotifyEvent > len(data) {
			return events, fmt.Errorf("read inotify: truncated record at offset %d", offset)
		}
		var raw unix.InotifyEvent
		if _, err := binary.Decode(data[offset:offset+unix.SizeofInotifyEvent], binary.NativeEndian, &raw); err != nil {
			return events, fmt.Errorf("decode inotify record: %w", err)
		}
		start := offset + unix.SizeofInotifyEvent
		end := start + int(raw.Len)
		if end > len(data) {
			return events, fmt.Errorf("read inotify: truncated name at offset %d", offset)
		}
		offset = end

		op := fromInotifyMask(raw.Mask)
		if op == 0 {
			continue
		}
		events = append(events, Event{
			Path:   b.path,
			Op:     op,
			Cookie: raw.Cookie,
			Name:   strings.TrimRight(string(data[start:end]), "\x00"),
		})
	}
	return events, nil
}

func (b *inotifyBackend) wake() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(b.wakeFd, buf[:])
}

func (b *inotifyBackend) drainWake() {
	var buf [8]byte
	_, _ = unix.Read(b.wakeFd, buf[:])
}

func (b *inotifyBackend) close() error {
	var errs []error
	if b.wakeFd >= 0 {
		if err := unix.Close(b.wakeFd); err != nil {
			errs = append(errs, fmt.Errorf("close eventfd: %w", err))
		}
		b.wakeFd = -1
	}
	if b.fd >= 0 {
		if err := unix.Close(b.fd); err != nil {
			errs = append(errs, fmt.Errorf("close inotify: %w", err))
		}
		b.fd = -1
	}
	return errors.Join(errs...)
}
