package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AskFile describes a request file for WriteAskFile. Zero fields are left
// out of the file.
type AskFile struct {
	PID      int
	Socket   string
	Message  string
	NotAfter uint64
}

// Render formats the request as systemd writes it.
func (a AskFile) Render() string {
	var b strings.Builder
	b.WriteString("[Ask]\n")
	if a.PID != 0 {
		fmt.Fprintf(&b, "PID=%d\n", a.PID)
	}
	if a.Socket != "" {
		fmt.Fprintf(&b, "Socket=%s\n", a.Socket)
	}
	if a.NotAfter != 0 {
		fmt.Fprintf(&b, "NotAfter=%d\n", a.NotAfter)
	}
	if a.Message != "" {
		fmt.Fprintf(&b, "Message=%s\n", a.Message)
	}
	return b.String()
}

// WriteAskFile publishes dir/name the way systemd does: the content is
// written to a temporary file and renamed into place. It returns the final
// path.
func WriteAskFile(t testing.TB, dir, name string, ask AskFile) string {
	t.Helper()
	return WriteRaw(t, dir, name, ask.Render())
}

// WriteRaw publishes arbitrary content as dir/name via rename.
func WriteRaw(t testing.TB, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	tmp, err := os.CreateTemp(dir, "tmp.")
	if err != nil {
		t.Fatalf("create temp for %s: %v", name, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		t.Fatalf("write %s: %v", name, err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatalf("close %s: %v", name, err)
	}
	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		t.Fatalf("rename into %s: %v", target, err)
	}
	return target
}
