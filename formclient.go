// Package formclient exposes construction helpers for the form client: the
// document loader and OpenAPI parser, route tables read from route files or
// derived from a document, and the orchestrator tying them to forms.
package formclient

import (
	"context"
	"fmt"

	internalParser "github.com/goliatone/go-formclient/internal/openapi/parser"
	internalsource "github.com/goliatone/go-formclient/internal/source"
	"github.com/goliatone/go-formclient/pkg/form"
	pkgopenapi "github.com/goliatone/go-formclient/pkg/openapi"
	"github.com/goliatone/go-formclient/pkg/orchestrator"
	"github.com/goliatone/go-formclient/pkg/routes"
	"github.com/goliatone/go-formclient/pkg/source"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...source.Option) source.Loader {
	return internalsource.New(source.NewOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadRoutes loads an OpenAPI document and returns a route table keyed by
// operationId.
func LoadRoutes(ctx context.Context, src source.Source, options ...source.Option) (*routes.Table, error) {
	doc, err := pkgopenapi.LoadDocument(ctx, NewLoader(options...), src)
	if err != nil {
		return nil, fmt.Errorf("formclient: load document: %w", err)
	}
	operations, err := NewParser().Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("formclient: parse operations: %w", err)
	}
	return routes.FromOperations(operations), nil
}

// LoadRouteFile reads a YAML route file (a top level "routes" mapping of
// name to path template) from src.
func LoadRouteFile(ctx context.Context, src source.Source, options ...source.Option) (*routes.Table, error) {
	table, err := routes.Load(ctx, NewLoader(options...), src)
	if err != nil {
		return nil, fmt.Errorf("formclient: %w", err)
	}
	return table, nil
}

// NewForm is shorthand for form.New.
func NewForm(data form.Fields, options ...form.Option) *form.Form {
	return form.New(data, options...)
}
