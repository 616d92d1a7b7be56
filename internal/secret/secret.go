// Package secret supplies the cached passphrase used to answer requests.
package secret

import (
	"bytes"
	"context"
	"fmt"
	"os"
)

// Kind classifies a fetch outcome.
type Kind int

const (
	// Skip leaves the request unanswered.
	Skip Kind = iota
	// Found carries a secret to deliver. The secret may be empty.
	Found
	// Cancel answers the request negatively.
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Cancel:
		return "cancel"
	default:
		return "skip"
	}
}

// Result is the outcome of a fetch. Err records why a Skip happened, when
// there was a reason beyond the cache being absent.
type Result struct {
	Kind   Kind
	Secret []byte
	Err    error
}

// FoundResult wraps a secret.
func FoundResult(secret []byte) Result { return Result{Kind: Found, Secret: secret} }

// SkipResult records a skip with an optional cause.
func SkipResult(err error) Result { return Result{Kind: Skip, Err: err} }

// CancelResult requests a negative reply.
func CancelResult() Result { return Result{Kind: Cancel} }

// Source produces the secret for a request.
type Source interface {
	Fetch(ctx context.Context) Result
}

// FileSource reads the secret from a cache file, trimming surrounding
// whitespace. Any read failure, including a missing file, yields Skip.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Fetch(_ context.Context) Result {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return SkipResult(fmt.Errorf("read password cache: %w", err))
	}
	return FoundResult(bytes.TrimSpace(data))
}
