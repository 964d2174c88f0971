// Package transport defines the verb-keyed HTTP dispatch contract forms
// submit through, plus a net/http backed implementation.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formclient/pkg/payload"
)

// Transport exposes one operation per supported HTTP verb. Implementations
// return a *Response on success and an error on failure; failures caused by a
// server response should be reported as *Error so forms can extract the
// server's error payload.
type Transport interface {
	Get(ctx context.Context, url string, body payload.Body) (*Response, error)
	Post(ctx context.Context, url string, body payload.Body) (*Response, error)
	Patch(ctx context.Context, url string, body payload.Body) (*Response, error)
	Put(ctx context.Context, url string, body payload.Body) (*Response, error)
}

// Method names a transport operation.
type Method string

const (
	MethodGet   Method = "get"
	MethodPost  Method = "post"
	MethodPatch Method = "patch"
	MethodPut   Method = "put"
)

// Methods lists the supported verbs.
var Methods = []Method{MethodGet, MethodPost, MethodPatch, MethodPut}

// ParseMethod accepts a verb in any case.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, raw)
}

// HTTP returns the canonical request method, e.g. "PATCH".
func (m Method) HTTP() string {
	return strings.ToUpper(string(m))
}

// Dispatch invokes the operation matching method.
func Dispatch(ctx context.Context, t Transport, method Method, url string, body payload.Body) (*Response, error) {
	if t == nil {
		return nil, ErrNoTransport
	}
	switch method {
	case MethodGet:
		return t.Get(ctx, url, body)
	case MethodPost:
		return t.Post(ctx, url, body)
	case MethodPatch:
		return t.Patch(ctx, url, body)
	case MethodPut:
		return t.Put(ctx, url, body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
}

// Response is the normalised shape of a completed request.
type Response struct {
	Status int
	Header http.Header
	// Data holds the decoded JSON body, or the raw body as a string when it is
	// not JSON. Nil when the body is empty.
	Data any
}

// Error is the failure envelope. Response is set when the server answered
// with a non-2xx status and nil for network-level failures.
type Error struct {
	Method   Method
	URL      string
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "transport: request failed"
	case e.Response != nil:
		return fmt.Sprintf("transport: %s %s: status %d", e.Method.HTTP(), e.URL, e.Response.Status)
	case e.Err != nil:
		return fmt.Sprintf("transport: %s %s: %v", e.Method.HTTP(), e.URL, e.Err)
	default:
		return fmt.Sprintf("transport: %s %s failed", e.Method.HTTP(), e.URL)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Func is the signature of a single verb operation.
type Func func(ctx context.Context, url string, body payload.Body) (*Response, error)

// Funcs adapts plain functions to Transport. Verbs left nil fail with
// ErrUnsupportedMethod.
type Funcs struct {
	GetFunc   Func
	PostFunc  Func
	PatchFunc Func
	PutFunc   Func
}

var _ Transport = Funcs{}

func (f Funcs) Get(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return call(ctx, f.GetFunc, MethodGet, url, body)
}

func (f Funcs) Post(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return call(ctx, f.PostFunc, MethodPost, url, body)
}

func (f Funcs) Patch(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return call(ctx, f.PatchFunc, MethodPatch, url, body)
}

func (f Funcs) Put(ctx context.Context, url string, body payload.Body) (*Response, error) {
	return call(ctx, f.PutFunc, MethodPut, url, body)
}

func call(ctx context.Context, fn Func, method Method, url string, body payload.Body) (*Response, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	return fn(ctx, url, body)
}
