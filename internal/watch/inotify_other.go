//go:build !linux

package watch

import "fmt"

func openInotify(string, Op, Options) (backend, error) {
	return nil, fmt.Errorf("%w: inotify backend requires linux; use the fsnotify backend", ErrSetup)
}
