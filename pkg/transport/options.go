package transport

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPOptions configures the net/http backed transport.
type HTTPOptions struct {
	// Client performs the requests. Defaults to a fresh *http.Client.
	Client *http.Client

	// BaseURL is prefixed to relative request URLs. Absolute URLs are sent
	// untouched.
	BaseURL string

	// Header is merged into every request. The defaults announce a JSON
	// capable XHR client, which most form backends key error payloads on.
	Header http.Header

	// Timeout caps each request when positive.
	Timeout time.Duration

	// Logger receives request/response debug records.
	Logger *slog.Logger
}

// HTTPOption mutates HTTPOptions prior to construction.
type HTTPOption func(*HTTPOptions)

// WithHTTPClient injects a custom HTTP client (proxies, cookie jars).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(opts *HTTPOptions) {
		if client != nil {
			opts.Client = client
		}
	}
}

// WithBaseURL sets the prefix for relative URLs.
func WithBaseURL(base string) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.BaseURL = base
	}
}

// WithHeader sets a header sent with every request.
func WithHeader(key, value string) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.Header.Set(key, value)
	}
}

// WithTimeout caps request durations.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.Timeout = timeout
	}
}

// WithLogger routes transport logs to logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(opts *HTTPOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// NewHTTPOptions applies options over the defaults.
func NewHTTPOptions(options ...HTTPOption) HTTPOptions {
	cfg := HTTPOptions{
		Header: http.Header{
			"Accept":           []string{"application/json"},
			"X-Requested-With": []string{"XMLHttpRequest"},
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
