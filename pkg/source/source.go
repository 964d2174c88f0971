// Package source names where configuration documents live (route files and
// OpenAPI documents) and defines the Loader contract that fetches them.
// The built-in Loader lives under internal/source and is constructed through
// the top-level formclient package.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	// ErrRemoteDisabled is returned when a URL source is loaded without
	// remote loading enabled.
	ErrRemoteDisabled = errors.New("source: remote loading disabled")
	// ErrNoFileSystem is returned for FS sources when no fs.FS is configured.
	ErrNoFileSystem = errors.New("source: no filesystem configured")
	// ErrTooLarge is returned when a document exceeds the configured limit.
	ErrTooLarge = errors.New("source: document too large")
	// ErrUnsupportedKind is returned for sources the loader cannot read.
	ErrUnsupportedKind = errors.New("source: unsupported kind")
)

// Kind tells a Loader which strategy reads a Source.
type Kind string

const (
	KindFile Kind = "file"
	KindFS   Kind = "fs"
	KindURL  Kind = "url"
)

// Source is a document location.
type Source interface {
	Kind() Kind
	Location() string
}

// Loader returns the raw bytes behind a Source.
type Loader interface {
	Load(ctx context.Context, src Source) ([]byte, error)
}

type location struct {
	kind Kind
	loc  string
}

func (l location) Kind() Kind       { return l.kind }
func (l location) Location() string { return l.loc }
func (l location) String() string   { return string(l.kind) + ":" + l.loc }

// File points at a path on the local disk.
func File(path string) Source {
	return location{kind: KindFile, loc: filepath.Clean(path)}
}

// FS points at a name inside the Loader's fs.FS.
func FS(name string) Source {
	return location{kind: KindFS, loc: name}
}

// URL points at an http or https document.
func URL(raw string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("source: invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("source: invalid url %q: want an absolute http(s) url", raw)
	}
	return location{kind: KindURL, loc: u.String()}, nil
}

// Parse turns a command-line style location into a Source: http(s) URLs
// become URL sources, "fs:" prefixed names FS sources, and anything else a
// file path.
func Parse(raw string) (Source, error) {
	loc := strings.TrimSpace(raw)
	switch {
	case loc == "":
		return nil, errors.New("source: location is empty")
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return URL(loc)
	case strings.HasPrefix(loc, "fs:"):
		return FS(strings.TrimPrefix(loc, "fs:")), nil
	default:
		return File(loc), nil
	}
}
