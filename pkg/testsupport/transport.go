package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-formclient/pkg/payload"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// Call is a request captured by Recorder.
type Call struct {
	Method transport.Method
	URL    string
	Body   payload.Body
}

// Recorder is a scripted Transport. Every call is recorded and answered by
// Handler; without a Handler calls succeed with an empty 200 response.
type Recorder struct {
	Handler func(ctx context.Context, call Call) (*transport.Response, error)

	mu    sync.Mutex
	calls []Call
}

var _ transport.Transport = (*Recorder)(nil)

// Respond returns a Recorder answering every call with resp and err.
func Respond(resp *transport.Response, err error) *Recorder {
	return &Recorder{
		Handler: func(context.Context, Call) (*transport.Response, error) {
			return resp, err
		},
	}
}

func (r *Recorder) Get(ctx context.Context, url string, body payload.Body) (*transport.Response, error) {
	return r.record(ctx, Call{Method: transport.MethodGet, URL: url, Body: body})
}

func (r *Recorder) Post(ctx context.Context, url string, body payload.Body) (*transport.Response, error) {
	return r.record(ctx, Call{Method: transport.MethodPost, URL: url, Body: body})
}

func (r *Recorder) Patch(ctx context.Context, url string, body payload.Body) (*transport.Response, error) {
	return r.record(ctx, Call{Method: transport.MethodPatch, URL: url, Body: body})
}

func (r *Recorder) Put(ctx context.Context, url string, body payload.Body) (*transport.Response, error) {
	return r.record(ctx, Call{Method: transport.MethodPut, URL: url, Body: body})
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent call.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

func (r *Recorder) record(ctx context.Context, call Call) (*transport.Response, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	handler := r.Handler
	r.mu.Unlock()

	if handler == nil {
		return &transport.Response{Status: 200}, nil
	}
	return handler(ctx, call)
}
