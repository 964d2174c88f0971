// Package openapi holds the OpenAPI view a form client needs: documents,
// the operations they declare and their request body schemas. Operations
// become route table entries and request bodies seed form fields. The
// kin-openapi backed Parser lives under internal/openapi.
package openapi
