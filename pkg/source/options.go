package source

import (
	"io/fs"
	"net/http"
	"time"
)

// DefaultMaxBytes caps documents when no limit is configured.
const DefaultMaxBytes int64 = 8 << 20

// Options configures the built-in Loader. Loading is offline unless Remote
// is set or an HTTP client is supplied.
type Options struct {
	FileSystem fs.FS
	HTTPClient *http.Client
	Remote     bool
	Timeout    time.Duration
	Header     http.Header
	MaxBytes   int64
}

// Option mutates Options.
type Option func(*Options)

// WithFileSystem sets the fs.FS that FS sources are read from.
func WithFileSystem(fsys fs.FS) Option {
	return func(o *Options) {
		o.FileSystem = fsys
	}
}

// WithHTTPClient enables URL sources through client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
		o.Remote = client != nil || o.Remote
	}
}

// WithRemote enables URL sources through a default client.
func WithRemote(timeout time.Duration) Option {
	return func(o *Options) {
		o.Remote = true
		o.Timeout = timeout
	}
}

// WithHeader adds a header to remote requests, e.g. an Authorization token
// for a private route file.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		o.Header.Add(key, value)
	}
}

// WithMaxBytes caps the size of any loaded document.
func WithMaxBytes(n int64) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxBytes = n
		}
	}
}

// NewOptions applies options over the defaults.
func NewOptions(options ...Option) Options {
	cfg := Options{
		Header:   http.Header{"Accept": []string{"application/yaml, application/json;q=0.9, */*;q=0.1"}},
		MaxBytes: DefaultMaxBytes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
