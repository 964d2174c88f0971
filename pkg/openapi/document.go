package openapi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formclient/pkg/source"
)

// Document wraps the raw OpenAPI payload and its origin.
type Document struct {
	source source.Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src source.Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src source.Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() source.Source {
	return d.source
}

// Raw returns a defensive copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Operation is the subset of OpenAPI operation metadata a form client needs:
// where to send the form and what the request body looks like.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	RequestBody Schema
}

// NewOperation validates core fields.
func NewOperation(id, method, path string, request Schema) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}

	return Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		RequestBody: request,
	}, nil
}

// MustNewOperation panics when construction fails, assisting fixtures/tests.
func MustNewOperation(id, method, path string, request Schema) Operation {
	op, err := NewOperation(id, method, path, request)
	if err != nil {
		panic(err)
	}
	return op
}

// Schema represents a request body and its nested properties.
type Schema struct {
	Ref        string
	Type       string
	Format     string
	Required   []string
	Properties map[string]Schema
	Items      *Schema
	Default    any
}

// Clone creates a deep copy of the schema tree to avoid accidental mutation.
func (s Schema) Clone() Schema {
	cloned := s
	if len(s.Required) > 0 {
		cloned.Required = append([]string(nil), s.Required...)
	}
	if len(s.Properties) > 0 {
		cloned.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			cloned.Properties[k] = v.Clone()
		}
	}
	if s.Items != nil {
		items := s.Items.Clone()
		cloned.Items = &items
	}
	return cloned
}

// PropertyNames returns the object property names, sorted.
func (s Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBinary reports whether the schema describes file content.
func (s Schema) IsBinary() bool {
	return s.Type == "string" && (s.Format == "binary" || s.Format == "base64")
}

// DebugString renders the schema for logging without exposing kin-openapi
// structures.
func (s Schema) DebugString() string {
	summary := fmt.Sprintf("type=%s", s.Type)
	if s.Ref != "" {
		summary += fmt.Sprintf(",ref=%s", s.Ref)
	}
	if s.Format != "" {
		summary += fmt.Sprintf(",format=%s", s.Format)
	}
	if len(s.Properties) > 0 {
		summary += fmt.Sprintf(",properties=%d", len(s.Properties))
	}
	if s.Items != nil {
		summary += ",items=true"
	}
	return summary
}
