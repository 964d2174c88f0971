package routes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	pkgopenapi "github.com/goliatone/go-formclient/pkg/openapi"
	"github.com/goliatone/go-formclient/pkg/source"
)

// fileDocument is the on-disk route file layout:
//
//	routes:
//	  user.show: /users/{id}
//	  user.update: /users/{id}
type fileDocument struct {
	Routes map[string]string `yaml:"routes"`
}

// LoadYAML parses a route file. JSON input is accepted since it is valid
// YAML.
func LoadYAML(r io.Reader) (*Table, error) {
	if r == nil {
		return nil, errors.New("routes: reader is nil")
	}
	var doc fileDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("routes: decode: %w", err)
	}

	table := New(nil)
	for name, template := range doc.Routes {
		id := strings.TrimSpace(name)
		if id == "" {
			return nil, errors.New("routes: route file defines an empty route name")
		}
		table.Add(id, template)
	}
	return table, nil
}

// Load reads the route file behind src through l, so route tables can live
// on disk, in an embedded fs.FS or behind a URL.
func Load(ctx context.Context, l source.Loader, src source.Source) (*Table, error) {
	if l == nil {
		return nil, errors.New("routes: loader is nil")
	}
	raw, err := l.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}

	table, err := LoadYAML(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, src.Location())
	}
	return table, nil
}

// FromOperations builds a table keyed by operation id. OpenAPI path
// templates share the "{param}" placeholder syntax so they resolve as-is.
func FromOperations(operations map[string]pkgopenapi.Operation) *Table {
	table := New(nil)
	for id, op := range operations {
		name := strings.TrimSpace(op.ID)
		if name == "" {
			name = id
		}
		if name == "" || op.Path == "" {
			continue
		}
		table.Add(name, op.Path)
	}
	return table
}
