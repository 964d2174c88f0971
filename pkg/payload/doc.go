// Package payload defines the request bodies a form hands to a transport.
//
// A Body is one of three variants:
//
//   - JSON: the plain field mapping, encoded as a JSON document.
//   - *FormData: ordered multipart entries, used whenever the form carries
//     files.
//   - Params: a wrapper around another Body that the transport serialises as
//     the query string instead of a request body (GET submissions).
//
// Transports dispatch on the variant with a type switch; callers never need
// to inspect concrete Go types of field values.
package payload
