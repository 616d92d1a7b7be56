// Package delivery sends answers back to password requesters.
//
// SocketChannel writes the reply datagram straight to the request's socket,
// which requires the caller to be allowed to connect to it (normally root).
// HelperChannel runs systemd-reply-password, optionally through pkexec, so an
// unprivileged agent can answer after a polkit authorization. Both speak the
// systemd ask-password reply format: "+" followed by the secret, or "-" to
// cancel.
//
// A cancel is not encoded as the "+" marker alone, which the socket reader
// would take as an empty password. "-" is what systemd-reply-password sends
// when given a "0" presence flag, so both channels answer a cancel the same
// way.
package delivery
