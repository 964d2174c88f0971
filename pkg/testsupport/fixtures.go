// Package testsupport holds fixtures and fakes shared by the package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	pkgopenapi "github.com/goliatone/go-formclient/pkg/openapi"
	"github.com/goliatone/go-formclient/pkg/source"
)

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(source.File(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
