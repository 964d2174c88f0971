package formclient_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	formclient "github.com/goliatone/go-formclient"
	"github.com/goliatone/go-formclient/pkg/form"
	"github.com/goliatone/go-formclient/pkg/source"
	"github.com/goliatone/go-formclient/pkg/testsupport"
)

const ordersDocument = `openapi: 3.0.3
info:
  title: Orders
  version: 1.0.0
paths:
  /orders/{id}:
    put:
      operationId: order.update
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
`

func TestLoadRoutesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.yaml")
	if err := os.WriteFile(path, []byte(ordersDocument), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := formclient.LoadRoutes(testsupport.Context(), source.File(path))
	if err != nil {
		t.Fatalf("load routes: %v", err)
	}
	if got := table.Resolve("order.update", "A-1"); got != "/orders/A-1" {
		t.Fatalf("unexpected route %q", got)
	}
}

func TestLoadRoutesMissingFile(t *testing.T) {
	src := source.File(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := formclient.LoadRoutes(testsupport.Context(), src); err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func TestLoadRouteFileFromFS(t *testing.T) {
	fsys := fstest.MapFS{"routes.yaml": {Data: []byte("routes:\n  order.show: /orders/{id}\n")}}

	table, err := formclient.LoadRouteFile(testsupport.Context(), source.FS("routes.yaml"), source.WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("load route file: %v", err)
	}
	if got := table.Resolve("order.show", "A-1"); got != "/orders/A-1" {
		t.Fatalf("unexpected route %q", got)
	}
}

func TestLoadRouteFileRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t0k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("routes:\n  order.show: /orders/{id}\n"))
	}))
	defer server.Close()

	src, err := source.URL(server.URL + "/routes.yaml")
	if err != nil {
		t.Fatalf("url: %v", err)
	}

	if _, err := formclient.LoadRouteFile(testsupport.Context(), src); err == nil {
		t.Fatalf("expected remote loading to be disabled by default")
	}

	table, err := formclient.LoadRouteFile(testsupport.Context(), src,
		source.WithHTTPClient(server.Client()),
		source.WithHeader("Authorization", "Bearer t0k"),
	)
	if err != nil {
		t.Fatalf("load route file: %v", err)
	}
	if got := table.Resolve("order.show", 9); got != "/orders/9" {
		t.Fatalf("unexpected route %q", got)
	}
}

func TestNewForm(t *testing.T) {
	f := formclient.NewForm(form.Fields{"q": form.String("x"), "busy": form.Bool(true)})
	if diff := cmp.Diff(form.Fields{"q": form.String("x")}, f.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}
