package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	internalParser "github.com/goliatone/go-formclient/internal/openapi/parser"
	internalsource "github.com/goliatone/go-formclient/internal/source"
	"github.com/goliatone/go-formclient/pkg/form"
	pkgopenapi "github.com/goliatone/go-formclient/pkg/openapi"
	"github.com/goliatone/go-formclient/pkg/routes"
	"github.com/goliatone/go-formclient/pkg/source"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// ErrOperationNotFound is returned when a request names an unknown operation.
var ErrOperationNotFound = errors.New("orchestrator: operation not found")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the loader used to read OpenAPI documents.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithTransport sets the transport handed to every form the orchestrator
// builds.
func WithTransport(t transport.Transport) Option {
	return func(o *Orchestrator) {
		o.transport = t
	}
}

// WithRoutes registers extra route entries. They take precedence over routes
// derived from the document.
func WithRoutes(table *routes.Table) Option {
	return func(o *Orchestrator) {
		o.extraRoutes = table
	}
}

// WithFormOptions appends options applied to every form built.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// WithLogger sets the logger used by the orchestrator and the forms it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from OpenAPI document to submitted
// form. Missing dependencies fall back to the built-in loader and parser.
type Orchestrator struct {
	loader      source.Loader
	parser      pkgopenapi.Parser
	transport   transport.Transport
	extraRoutes *routes.Table
	formOptions []form.Option
	logger      *slog.Logger
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = internalsource.New(source.NewOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Request describes the inputs required to build a form for an operation.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when Document
	// is supplied.
	Source source.Source

	// Document allows callers to bypass the loader when they already hold the
	// payload.
	Document *pkgopenapi.Document

	// OperationID selects the operation whose request body seeds the form.
	OperationID string

	// Values override the seeded field values.
	Values form.Fields

	// Params fill the operation's path template.
	Params routes.Params
}

// Routes loads the document and returns its route table: one entry per
// operationId mapping to the operation path, merged with any WithRoutes
// entries.
func (o *Orchestrator) Routes(ctx context.Context, req Request) (*routes.Table, error) {
	_, table, err := o.catalog(ctx, req)
	return table, err
}

// Form builds a form for req.OperationID, seeded from the operation's request
// body schema and wired to the orchestrator's transport and route table.
func (o *Orchestrator) Form(ctx context.Context, req Request) (*form.Form, pkgopenapi.Operation, error) {
	if req.OperationID == "" {
		return nil, pkgopenapi.Operation{}, errors.New("orchestrator: operation id is required")
	}

	operations, table, err := o.catalog(ctx, req)
	if err != nil {
		return nil, pkgopenapi.Operation{}, err
	}

	op, ok := operations[req.OperationID]
	if !ok {
		return nil, pkgopenapi.Operation{}, fmt.Errorf("%w: %q", ErrOperationNotFound, req.OperationID)
	}

	opts := []form.Option{
		form.WithRoutes(table),
		form.WithLogger(o.logger),
	}
	if o.transport != nil {
		opts = append(opts, form.WithTransport(o.transport))
	}
	if len(req.Values) > 0 {
		opts = append(opts, form.WithMerge(req.Values))
	}
	opts = append(opts, o.formOptions...)

	f := form.New(form.FieldsFromSchema(op.RequestBody), opts...)
	o.logger.DebugContext(ctx, "orchestrator built form", "operation", op.ID, "fields", len(f.Names()))
	return f, op, nil
}

// Submit builds the form for req and sends it with the operation's method to
// its resolved route. The form is returned alongside the response so callers
// can inspect its error bag after a failure.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*transport.Response, *form.Form, error) {
	f, op, err := o.Form(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	method, err := transport.ParseMethod(op.Method)
	if err != nil {
		return nil, f, fmt.Errorf("orchestrator: operation %q: %w", op.ID, err)
	}

	resp, err := f.Submit(ctx, method, op.ID, req.Params)
	return resp, f, err
}

func (o *Orchestrator) catalog(ctx context.Context, req Request) (map[string]pkgopenapi.Operation, *routes.Table, error) {
	if ctx == nil {
		return nil, nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: parse operations: %w", err)
	}

	table := routes.FromOperations(operations)
	if o.extraRoutes != nil {
		table.Merge(o.extraRoutes)
	}
	return operations, table, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := pkgopenapi.LoadDocument(ctx, o.loader, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}
