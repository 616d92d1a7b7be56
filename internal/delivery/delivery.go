package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"askcache/internal/secret"
)

// Channel delivers a fetch result to the socket named by a request.
type Channel interface {
	Deliver(ctx context.Context, socket string, res secret.Result) error
}

// Mode selects the delivery strategy.
type Mode string

const (
	ModeSocket Mode = "socket"
	ModePolkit Mode = "polkit"
)

// ErrNothingToDeliver is returned for results that carry no answer.
var ErrNothingToDeliver = errors.New("nothing to deliver")

// Options configures New.
type Options struct {
	Mode         Mode
	PkexecBinary string
	ReplyBinary  string
}

// New returns the channel for opts.Mode.
func New(opts Options) (Channel, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(string(opts.Mode)))) {
	case "", ModeSocket:
		return &SocketChannel{}, nil
	case ModePolkit:
		if strings.TrimSpace(opts.ReplyBinary) == "" {
			return nil, errors.New("polkit delivery requires a reply binary")
		}
		return &HelperChannel{Pkexec: opts.PkexecBinary, Reply: opts.ReplyBinary}, nil
	default:
		return nil, fmt.Errorf("unsupported delivery mode %q", opts.Mode)
	}
}

// Payload encodes a result as a reply datagram.
func Payload(res secret.Result) ([]byte, error) {
	switch res.Kind {
	case secret.Found:
		payload := make([]byte, 0, len(res.Secret)+1)
		payload = append(payload, '+')
		return append(payload, res.Secret...), nil
	case secret.Cancel:
		return []byte{'-'}, nil
	default:
		return nil, ErrNothingToDeliver
	}
}
