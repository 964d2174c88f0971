// Package orchestrator wires the loader → parser → route table → form
// pipeline, so callers holding an OpenAPI document can build and submit a
// form for an operation with a single entry point.
package orchestrator
