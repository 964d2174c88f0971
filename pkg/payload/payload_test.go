package payload_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formclient/pkg/payload"
)

func TestFormDataWriteToKeepsOrder(t *testing.T) {
	data := payload.NewFormData()
	data.Append("title", "Hello")
	data.AppendFile("photos[]", payload.File{Name: "a.png", ContentType: "image/png", Content: []byte("A")})
	data.AppendFile("photos[]", payload.File{Name: "b.png", Content: []byte("B")})

	var buf bytes.Buffer
	contentType, err := data.WriteTo(&buf)
	if err != nil {
		t.Fatalf("write multipart: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("unexpected media type %q", mediaType)
	}

	type part struct {
		Name, File, Type, Body string
	}
	var got []part
	reader := multipart.NewReader(&buf, params["boundary"])
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		body, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		got = append(got, part{
			Name: p.FormName(),
			File: p.FileName(),
			Type: p.Header.Get("Content-Type"),
			Body: string(body),
		})
	}

	want := []part{
		{Name: "title", Body: "Hello"},
		{Name: "photos[]", File: "a.png", Type: "image/png", Body: "A"},
		{Name: "photos[]", File: "b.png", Type: "application/octet-stream", Body: "B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parts mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryFlattensBodies(t *testing.T) {
	tests := []struct {
		name string
		body payload.Body
		want string
	}{
		{
			name: "json scalars",
			body: payload.JSON{"q": "go lang", "page": float64(2), "draft": false},
			want: "draft=false&page=2&q=go+lang",
		},
		{
			name: "json list",
			body: payload.JSON{"tags": []any{"a", "b"}},
			want: "tags%5B%5D=a&tags%5B%5D=b",
		},
		{
			name: "params wrapper",
			body: payload.Params{Body: payload.JSON{"id": "7"}},
			want: "id=7",
		},
		{
			name: "form data skips files",
			body: func() payload.Body {
				data := payload.NewFormData()
				data.Append("name", "x")
				data.AppendFile("doc", payload.File{Name: "f.txt"})
				return data
			}(),
			want: "name=x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := payload.Query(tt.body).Encode(); got != tt.want {
				t.Fatalf("query mismatch: want %q got %q", tt.want, got)
			}
		})
	}
}

func TestFormDataValues(t *testing.T) {
	data := payload.NewFormData()
	data.Append("a", "1")
	data.Append("b", "2")
	data.Append("a", "3")

	var got []string
	for _, entry := range data.Values("a") {
		got = append(got, entry.Value)
	}
	if diff := cmp.Diff([]string{"1", "3"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if data.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", data.Len())
	}
}
