package transport

import "errors"

var (
	// ErrUnsupportedMethod is returned for verbs outside get/post/patch/put.
	ErrUnsupportedMethod = errors.New("transport: unsupported method")
	// ErrNoTransport signals a form was submitted without a transport.
	ErrNoTransport = errors.New("transport: no transport configured")
)
