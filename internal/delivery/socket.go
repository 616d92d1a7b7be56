package delivery

import (
	"context"
	"fmt"
	"net"
	"time"

	"askcache/internal/secret"
)

const defaultSendTimeout = 5 * time.Second

// SendError reports a transport failure writing the reply datagram.
type SendError struct {
	Socket string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send reply to %s: %v", e.Socket, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// SocketChannel writes the reply datagram directly to the requester's socket.
type SocketChannel struct {
	Timeout time.Duration
}

func (c *SocketChannel) Deliver(ctx context.Context, socket string, res secret.Result) error {
	payload, err := Payload(res)
	if err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unixgram", socket)
	if err != nil {
		return &SendError{Socket: socket, Err: err}
	}
	defer conn.Close()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return &SendError{Socket: socket, Err: err}
	}
	if _, err := conn.Write(payload); err != nil {
		return &SendError{Socket: socket, Err: err}
	}
	return nil
}
