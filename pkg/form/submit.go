package form

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formclient/pkg/payload"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// Get submits the form as query parameters.
func (f *Form) Get(ctx context.Context, route string) (*transport.Response, error) {
	return f.Send(ctx, transport.MethodGet, route)
}

// Post submits the form with POST.
func (f *Form) Post(ctx context.Context, route string) (*transport.Response, error) {
	return f.Send(ctx, transport.MethodPost, route)
}

// Patch submits the form with PATCH.
func (f *Form) Patch(ctx context.Context, route string) (*transport.Response, error) {
	return f.Send(ctx, transport.MethodPatch, route)
}

// Put submits the form with PUT.
func (f *Form) Put(ctx context.Context, route string) (*transport.Response, error) {
	return f.Send(ctx, transport.MethodPut, route)
}

// Send submits the form's data to route and blocks until the transport
// answers or ctx is done.
//
// On success the form is marked successful and the response returned. On
// failure busy is cleared, the error bag is replaced with ExtractErrors(err)
// and err is returned unchanged. An unsupported method or a missing
// transport is reported before any state changes.
func (f *Form) Send(ctx context.Context, method transport.Method, route string) (*transport.Response, error) {
	return f.Submit(ctx, method, route, nil)
}

// Submit is Send with route parameters. The route is resolved exactly once,
// so a resolved URL is never looked up in the route table again.
func (f *Form) Submit(ctx context.Context, method transport.Method, route string, params any) (*transport.Response, error) {
	req, err := f.begin(method, route, params)
	if err != nil {
		return nil, err
	}
	return f.complete(ctx, req)
}

// Async starts a submission and returns immediately. The form is already
// busy when Async returns. Cancelling ctx aborts the transport call, which
// then completes through the failure path.
func (f *Form) Async(ctx context.Context, method transport.Method, route string) *Pending {
	p := &Pending{done: make(chan struct{})}

	req, err := f.begin(method, route, nil)
	if err != nil {
		p.err = err
		close(p.done)
		return p
	}

	go func() {
		defer close(p.done)
		p.resp, p.err = f.complete(ctx, req)
	}()
	return p
}

// Route resolves a route name through the form's route table. Unknown names,
// or a form without a table, resolve to the name itself.
func (f *Form) Route(name string, params any) string {
	return f.routes.Resolve(name, params)
}

type request struct {
	method transport.Method
	url    string
	body   payload.Body
}

func (f *Form) begin(method transport.Method, route string, params any) (request, error) {
	method, err := transport.ParseMethod(string(method))
	if err != nil {
		return request{}, err
	}
	if f.transport == nil {
		return request{}, transport.ErrNoTransport
	}

	f.StartProcessing()

	body := f.body()
	if method == transport.MethodGet {
		body = payload.Params{Body: body}
	}
	return request{method: method, url: f.Route(route, params), body: body}, nil
}

func (f *Form) complete(ctx context.Context, req request) (*transport.Response, error) {
	f.logger.DebugContext(ctx, "form submit", "method", req.method, "url", req.url)

	resp, err := transport.Dispatch(ctx, f.transport, req.method, req.url, req.body)
	if err != nil {
		errs := ExtractErrors(err)
		f.failProcessing(errs)
		f.logger.DebugContext(ctx, "form submit failed", "method", req.method, "url", req.url, "error", err, "fields", len(errs))
		return nil, err
	}

	f.FinishProcessing()
	f.logger.DebugContext(ctx, "form submit succeeded", "method", req.method, "url", req.url, "status", resp.Status)
	return resp, nil
}

// body snapshots the fields in insertion order and picks the encoding.
func (f *Form) body() payload.Body {
	f.mu.RLock()
	names := append([]string(nil), f.names...)
	fields := make(Fields, len(f.values))
	for name, value := range f.values {
		fields[name] = value
	}
	f.mu.RUnlock()

	if HasFile(fields) {
		return toFormData(names, fields)
	}
	out := make(payload.JSON, len(fields))
	for name, value := range fields {
		out[name] = value.Interface()
	}
	return out
}

// Pending is an in-flight submission started with Async.
type Pending struct {
	done chan struct{}
	resp *transport.Response
	err  error
}

// Done is closed once the submission has completed and the form state has
// been updated.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the submission completes or ctx is done. Giving up on
// the wait does not cancel the submission.
func (p *Pending) Wait(ctx context.Context) (*transport.Response, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, fmt.Errorf("form: wait: %w", ctx.Err())
	}
}
