package openapi

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formclient/pkg/source"
)

// Parser extracts the operations a form client can target, keyed by
// operationId.
type Parser interface {
	Operations(ctx context.Context, doc Document) (map[string]Operation, error)
}

// ParserOptions controls how strictly documents are read.
type ParserOptions struct {
	// Validate runs full document validation before extracting operations.
	Validate bool
	// ExternalRefs lets $ref point outside the document.
	ExternalRefs bool
	// AllowEmpty accepts documents that declare no operations, yielding an
	// empty route table instead of an error.
	AllowEmpty bool
}

// ParserOption mutates ParserOptions.
type ParserOption func(*ParserOptions)

// WithValidation toggles full document validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

// WithExternalRefs toggles resolution of references outside the document.
func WithExternalRefs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ExternalRefs = enabled
	}
}

// WithAllowEmpty toggles acceptance of documents without operations.
func WithAllowEmpty(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmpty = enabled
	}
}

// NewParserOptions applies options over the defaults: validation on,
// external references and empty documents off.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{Validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// LoadDocument fetches src through l and wraps it as a Document.
func LoadDocument(ctx context.Context, l source.Loader, src source.Source) (Document, error) {
	if l == nil {
		return Document{}, fmt.Errorf("openapi: loader is required")
	}
	raw, err := l.Load(ctx, src)
	if err != nil {
		return Document{}, err
	}
	return NewDocument(src, raw)
}
