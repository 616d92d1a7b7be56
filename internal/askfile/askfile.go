// Package askfile reads systemd ask-password request files.
//
// A request file is an INI document with a single [Ask] section written by
// systemd-ask-password into the request directory. Parsing is strict: a
// missing required key or a value that does not convert to its type makes
// the whole file invalid.
package askfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Prefix marks request files within the request directory.
const Prefix = "ask."

const sectionName = "Ask"

// ErrInvalid marks request files that cannot be used.
var ErrInvalid = errors.New("invalid request file")

// Request is one pending password request.
type Request struct {
	Name     string
	Path     string
	Message  string
	PID      int
	NotAfter uint64
	Socket   string

	ID           string
	Icon         string
	Echo         bool
	AcceptCached bool
	Silent       bool
}

// IsRequestName reports whether a directory entry name is a request file.
func IsRequestName(name string) bool {
	return strings.HasPrefix(name, Prefix)
}

// Expired reports whether the deadline has passed at nowMicros. A zero
// NotAfter never expires.
func (r *Request) Expired(nowMicros uint64) bool {
	return r != nil && r.NotAfter != 0 && nowMicros >= r.NotAfter
}

// Load reads and parses dir/name.
func Load(dir, name string) (*Request, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", name, err)
	}
	req, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return req, nil
}

// Parse decodes request file content.
func Parse(name string, data []byte) (*Request, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		// A trailing backslash belongs to the value; lines are never joined.
		IgnoreContinuation: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}
	section, err := file.GetSection(sectionName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing [%s] section", ErrInvalid, name, sectionName)
	}

	req := &Request{Name: name}
	if !section.HasKey("PID") {
		return nil, fmt.Errorf("%w: %s: missing PID", ErrInvalid, name)
	}
	if req.PID, err = section.Key("PID").Int(); err != nil {
		return nil, fmt.Errorf("%w: %s: PID: %w", ErrInvalid, name, err)
	}
	if req.PID <= 0 {
		return nil, fmt.Errorf("%w: %s: PID must be positive, got %d", ErrInvalid, name, req.PID)
	}

	req.Socket = strings.TrimSpace(section.Key("Socket").String())
	if req.Socket == "" {
		return nil, fmt.Errorf("%w: %s: missing Socket", ErrInvalid, name)
	}

	if section.HasKey("NotAfter") {
		if req.NotAfter, err = section.Key("NotAfter").Uint64(); err != nil {
			return nil, fmt.Errorf("%w: %s: NotAfter: %w", ErrInvalid, name, err)
		}
	}

	req.Message = section.Key("Message").String()
	req.ID = section.Key("Id").String()
	req.Icon = section.Key("Icon").String()

	flags := []struct {
		key string
		dst *bool
	}{
		{"Echo", &req.Echo},
		{"AcceptCached", &req.AcceptCached},
		{"Silent", &req.Silent},
	}
	for _, flag := range flags {
		if !section.HasKey(flag.key) {
			continue
		}
		if *flag.dst, err = section.Key(flag.key).Bool(); err != nil {
			return nil, fmt.Errorf("%w: %s: %s: %w", ErrInvalid, name, flag.key, err)
		}
	}
	return req, nil
}

// Entry is a listing result; exactly one of Request and Err is set.
type Entry struct {
	Name    string
	Request *Request
	Err     error
}

// List returns every request file in dir sorted by name.
func List(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read request directory: %w", err)
	}
	var out []Entry
	for _, entry := range entries {
		if entry.IsDir() || !IsRequestName(entry.Name()) {
			continue
		}
		req, err := Load(dir, entry.Name())
		out = append(out, Entry{Name: entry.Name(), Request: req, Err: err})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
