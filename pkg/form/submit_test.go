package form_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formclient/pkg/form"
	"github.com/goliatone/go-formclient/pkg/payload"
	"github.com/goliatone/go-formclient/pkg/routes"
	"github.com/goliatone/go-formclient/pkg/testsupport"
	"github.com/goliatone/go-formclient/pkg/transport"
)

var userRoutes = routes.New(map[string]string{
	"user.store":  "/users",
	"user.update": "/users/{id}",
	"user.search": "/users/search",
})

func TestPostSendsJSONToResolvedRoute(t *testing.T) {
	rec := testsupport.Respond(&transport.Response{Status: http.StatusCreated, Data: map[string]any{"id": 1.0}}, nil)
	f := form.New(form.Fields{
		"name":  form.String("Ada"),
		"admin": form.Bool(true),
		"age":   form.Int(36),
	}, form.WithTransport(rec), form.WithRoutes(userRoutes))

	resp, err := f.Post(testsupport.Context(), "user.store")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.Status)
	}

	call, _ := rec.Last()
	if call.Method != transport.MethodPost || call.URL != "/users" {
		t.Fatalf("unexpected call %s %s", call.Method, call.URL)
	}
	want := payload.JSON{"name": "Ada", "admin": true, "age": float64(36)}
	if diff := cmp.Diff(want, call.Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	if f.Busy() || !f.Successful() || f.State() != form.Succeeded {
		t.Fatalf("expected success state, got busy=%v successful=%v", f.Busy(), f.Successful())
	}
}

func TestVerbWrappersDispatchMatchingMethod(t *testing.T) {
	rec := &testsupport.Recorder{}
	f := form.New(form.Fields{"q": form.String("x")}, form.WithTransport(rec), form.WithRoutes(userRoutes))
	ctx := testsupport.Context()

	if _, err := f.Get(ctx, "user.search"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := f.Patch(ctx, f.Route("user.update", 7)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if _, err := f.Put(ctx, "/raw/path"); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got []string
	for _, call := range rec.Calls() {
		got = append(got, call.Method.HTTP()+" "+call.URL)
	}
	want := []string{"GET /users/search", "PATCH /users/7", "PUT /raw/path"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}

	first := rec.Calls()[0]
	params, ok := first.Body.(payload.Params)
	if !ok {
		t.Fatalf("GET body should be wrapped as params, got %T", first.Body)
	}
	if diff := cmp.Diff(payload.JSON{"q": "x"}, params.Body); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitResolvesRouteOnce(t *testing.T) {
	rec := &testsupport.Recorder{}
	table := routes.New(map[string]string{
		"post.show": "/posts/{id}",
		"/posts/1":  "/legacy/{id}",
	})
	f := form.New(nil, form.WithTransport(rec), form.WithRoutes(table))

	if _, err := f.Submit(testsupport.Context(), transport.MethodPut, "post.show", 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	call, _ := rec.Last()
	if call.URL != "/posts/1" {
		t.Fatalf("resolved url looked up twice, got %q", call.URL)
	}
}

func TestFileFieldsSwitchToMultipart(t *testing.T) {
	rec := &testsupport.Recorder{}
	f := form.New(form.Fields{
		"title": form.String("Album"),
		"photos": form.Files(
			payload.File{Name: "1.png", Content: []byte("one")},
			payload.File{Name: "2.png", Content: []byte("two")},
		),
	}, form.WithTransport(rec))

	if _, err := f.Post(testsupport.Context(), "/albums"); err != nil {
		t.Fatalf("post: %v", err)
	}

	call, _ := rec.Last()
	data, ok := call.Body.(*payload.FormData)
	if !ok {
		t.Fatalf("expected multipart body, got %T", call.Body)
	}

	var names []string
	for _, entry := range data.Entries() {
		if entry.IsFile() {
			names = append(names, entry.Name+"="+entry.File.Name)
			continue
		}
		names = append(names, entry.Name+"="+entry.Value)
	}
	want := []string{"photos[]=1.png", "photos[]=2.png", "title=Album"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestFailurePopulatesErrorBag(t *testing.T) {
	failure := &transport.Error{
		Method: transport.MethodPost,
		URL:    "/users",
		Response: &transport.Response{
			Status: http.StatusUnprocessableEntity,
			Data: map[string]any{
				"message": "The given data was invalid.",
				"errors":  map[string]any{"email": []any{"The email has already been taken."}},
			},
		},
	}
	rec := testsupport.Respond(nil, failure)
	f := form.New(form.Fields{"email": form.String("ada@example.com")}, form.WithTransport(rec), form.WithRoutes(userRoutes))

	_, err := f.Post(testsupport.Context(), "user.store")
	if err != failure {
		t.Fatalf("expected the original failure to be returned, got %v", err)
	}

	want := map[string][]string{"email": {"The email has already been taken."}}
	if diff := cmp.Diff(want, f.Errors().All()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if f.Busy() || f.Successful() || f.State() != form.Failed {
		t.Fatalf("unexpected state busy=%v successful=%v state=%s", f.Busy(), f.Successful(), f.State())
	}
}

func TestFailureReplacesPreviousErrors(t *testing.T) {
	responses := []error{
		&transport.Error{Response: &transport.Response{Data: map[string]any{"errors": map[string]any{"name": "required"}}}},
		&transport.Error{Response: &transport.Response{Data: map[string]any{"message": "Server exploded"}}},
	}
	rec := &testsupport.Recorder{}
	calls := 0
	rec.Handler = func(context.Context, testsupport.Call) (*transport.Response, error) {
		err := responses[calls]
		calls++
		return nil, err
	}
	f := form.New(nil, form.WithTransport(rec))
	ctx := testsupport.Context()

	_, _ = f.Post(ctx, "/a")
	if !f.Errors().Has("name") {
		t.Fatalf("expected name error after first failure")
	}

	_, _ = f.Post(ctx, "/a")
	want := map[string][]string{"error": {"Server exploded"}}
	if diff := cmp.Diff(want, f.Errors().All()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSuccessAfterFailureClearsErrors(t *testing.T) {
	fail := true
	rec := &testsupport.Recorder{Handler: func(context.Context, testsupport.Call) (*transport.Response, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return &transport.Response{Status: http.StatusOK}, nil
	}}
	f := form.New(nil, form.WithTransport(rec))
	ctx := testsupport.Context()

	if _, err := f.Put(ctx, "/x"); err == nil {
		t.Fatalf("expected failure")
	}
	if got := f.Errors().Get("error"); got != form.GenericErrorMessage {
		t.Fatalf("expected generic message, got %q", got)
	}

	fail = false
	if _, err := f.Put(ctx, "/x"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if f.Errors().Any() || !f.Successful() {
		t.Fatalf("expected clean success, errors=%v", f.Errors().All())
	}
}

func TestFailureWithNilTransportError(t *testing.T) {
	rec := &testsupport.Recorder{Handler: func(context.Context, testsupport.Call) (*transport.Response, error) {
		var failure *transport.Error
		return nil, failure
	}}
	f := form.New(nil, form.WithTransport(rec))

	if _, err := f.Post(testsupport.Context(), "/x"); err == nil {
		t.Fatalf("expected the failure to be returned")
	}
	if f.Busy() || f.Errors().Get("error") != form.GenericErrorMessage {
		t.Fatalf("expected generic failure, errors=%v", f.Errors().All())
	}
}

func TestInvalidSubmissionLeavesStateUntouched(t *testing.T) {
	f := form.New(form.Fields{"a": form.String("b")}, form.WithTransport(&testsupport.Recorder{}))
	f.FinishProcessing()

	if _, err := f.Send(testsupport.Context(), transport.Method("delete"), "/a"); !errors.Is(err, transport.ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if !f.Successful() || f.Busy() {
		t.Fatalf("state must not change for rejected submissions")
	}

	orphan := form.New(nil)
	if _, err := orphan.Post(testsupport.Context(), "/a"); !errors.Is(err, transport.ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
	if orphan.Busy() {
		t.Fatalf("form without transport must not become busy")
	}
}

func TestAsyncMarksBusyUntilDone(t *testing.T) {
	release := make(chan struct{})
	rec := &testsupport.Recorder{Handler: func(ctx context.Context, _ testsupport.Call) (*transport.Response, error) {
		<-release
		return &transport.Response{Status: http.StatusOK, Data: "ok"}, nil
	}}
	f := form.New(nil, form.WithTransport(rec))

	pending := f.Async(testsupport.Context(), transport.MethodPost, "/slow")
	if !f.Busy() {
		t.Fatalf("form should be busy as soon as Async returns")
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := pending.Wait(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wait to time out, got %v", err)
	}
	if !f.Busy() {
		t.Fatalf("abandoning the wait must not clear busy")
	}

	close(release)
	resp, err := pending.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if resp.Data != "ok" || f.Busy() || !f.Successful() {
		t.Fatalf("unexpected completion: data=%v busy=%v successful=%v", resp.Data, f.Busy(), f.Successful())
	}
}

func TestAsyncCancellationTakesFailurePath(t *testing.T) {
	rec := &testsupport.Recorder{Handler: func(ctx context.Context, _ testsupport.Call) (*transport.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	f := form.New(nil, form.WithTransport(rec))

	ctx, cancel := context.WithCancel(context.Background())
	pending := f.Async(ctx, transport.MethodPatch, "/x")
	cancel()

	<-pending.Done()
	if _, err := pending.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.Busy() || f.Errors().Get("error") != form.GenericErrorMessage {
		t.Fatalf("cancelled submission should fail with the generic message")
	}
}

func TestAsyncRejectedSubmission(t *testing.T) {
	f := form.New(nil)
	pending := f.Async(testsupport.Context(), transport.MethodPost, "/x")
	<-pending.Done()
	if _, err := pending.Wait(context.Background()); !errors.Is(err, transport.ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
}

func TestSubmitOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPatch && r.URL.Path == "/users/5" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"message":"invalid","errors":{"name":["The name field is required."]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	client, err := transport.NewHTTP(transport.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	f := form.New(form.Fields{"name": form.String("")}, form.WithTransport(client), form.WithRoutes(userRoutes))

	_, err = f.Patch(testsupport.Context(), f.Route("user.update", 5))
	var terr *transport.Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if got := f.Errors().Get("name"); got != "The name field is required." {
		t.Fatalf("unexpected name error %q", got)
	}

	resp, err := f.Post(testsupport.Context(), "user.store")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"ok": true}, resp.Data); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
	if f.Errors().Any() {
		t.Fatalf("errors should be cleared by the new submission")
	}
}
