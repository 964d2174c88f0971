package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formclient/pkg/payload"
)

// HTTP implements Transport over net/http. Bodies are encoded by variant:
// payload.JSON as application/json, *payload.FormData as multipart, and
// payload.Params as the query string.
type HTTP struct {
	client  *http.Client
	base    *url.URL
	header  http.Header
	timeout time.Duration
	logger  *slog.Logger
}

var _ Transport = (*HTTP)(nil)

// NewHTTP constructs an HTTP transport. It fails only when BaseURL does not
// parse.
func NewHTTP(options ...HTTPOption) (*HTTP, error) {
	cfg := NewHTTPOptions(options...)

	var base *url.URL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		parsed, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("transport: invalid base url %q: %w", cfg.BaseURL, err)
		}
		base = parsed
	}

	return &HTTP{
		client:  cfg.Client,
		base:    base,
		header:  cfg.Header.Clone(),
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

func (h *HTTP) Get(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return h.do(ctx, MethodGet, url, body)
}

func (h *HTTP) Post(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return h.do(ctx, MethodPost, url, body)
}

func (h *HTTP) Patch(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return h.do(ctx, MethodPatch, url, body)
}

func (h *HTTP) Put(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return h.do(ctx, MethodPut, url, body)
}

func (h *HTTP) do(ctx context.Context, method Method, rawURL string, body payload.Body) (*Response, error) {
	target, err := h.resolve(rawURL)
	if err != nil {
		return nil, &Error{Method: method, URL: rawURL, Err: err}
	}

	reqCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := h.newRequest(reqCtx, method, target, body)
	if err != nil {
		return nil, &Error{Method: method, URL: target.String(), Err: err}
	}

	h.logger.DebugContext(ctx, "transport request", "method", req.Method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &Error{Method: method, URL: target.String(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: method, URL: target.String(), Err: fmt.Errorf("read body: %w", err)}
	}

	out := &Response{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Data:   decodeData(resp.Header.Get("Content-Type"), raw),
	}

	h.logger.DebugContext(ctx, "transport response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Method: method, URL: target.String(), Response: out}
	}
	return out, nil
}

func (h *HTTP) resolve(raw string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if h.base == nil || ref.IsAbs() {
		return ref, nil
	}
	return h.base.ResolveReference(ref), nil
}

func (h *HTTP) newRequest(ctx context.Context, method Method, target *url.URL, body payload.Body) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case payload.Params:
		query := target.Query()
		for key, values := range payload.Query(b) {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		clone := *target
		clone.RawQuery = query.Encode()
		target = &clone
	case payload.JSON:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	case *payload.FormData:
		var buf bytes.Buffer
		ct, err := b.WriteTo(&buf)
		if err != nil {
			return nil, err
		}
		reader = &buf
		contentType = ct
	default:
		return nil, fmt.Errorf("unsupported body %T", body)
	}

	req, err := http.NewRequestWithContext(ctx, method.HTTP(), target.String(), reader)
	if err != nil {
		return nil, err
	}
	for key, values := range h.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func decodeData(contentType string, raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if strings.Contains(contentType, "json") || json.Valid(trimmed) {
		var data any
		if err := json.Unmarshal(trimmed, &data); err == nil {
			return data
		}
	}
	return string(raw)
}
