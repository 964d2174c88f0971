package form

import (
	"errors"
	"math"

	"github.com/goliatone/go-formclient/pkg/transport"
)

// GenericErrorMessage is reported when a failure carries no server data.
const GenericErrorMessage = "Something went wrong. Please try again."

// ExtractErrors maps a failure payload onto field-keyed errors. Rules apply
// in order and the first match wins:
//
//  1. an envelope carrying a response (a *transport.Error with a Response,
//     or a map with a "response" key) is unwrapped to that response;
//  2. no data yields {"error": GenericErrorMessage};
//  3. data.errors yields a shallow copy of that mapping;
//  4. data.message yields {"error": message};
//  5. otherwise a shallow copy of data itself.
//
// Data that is not a mapping (a plain text body, a list of messages) is
// reported under "error". ExtractErrors never panics.
func ExtractErrors(failure any) map[string]any {
	source := unwrapEnvelope(failure)

	data, ok := dataOf(source)
	if !ok || !truthy(data) {
		return map[string]any{"error": GenericErrorMessage}
	}

	fields, ok := asMap(data)
	if !ok {
		return map[string]any{"error": data}
	}

	if errs, ok := fields["errors"]; ok && truthy(errs) {
		if mapped, ok := asMap(errs); ok {
			return shallowCopy(mapped)
		}
		return map[string]any{"error": errs}
	}

	if msg, ok := fields["message"]; ok && truthy(msg) {
		return map[string]any{"error": msg}
	}

	return shallowCopy(fields)
}

func unwrapEnvelope(failure any) any {
	switch v := failure.(type) {
	case map[string]any:
		if inner, ok := v["response"]; ok && truthy(inner) {
			return inner
		}
	case error:
		var terr *transport.Error
		if errors.As(v, &terr) {
			if terr == nil || terr.Response == nil {
				return nil
			}
			return terr.Response
		}
	}
	return failure
}

func dataOf(source any) (any, bool) {
	switch v := source.(type) {
	case *transport.Response:
		if v == nil {
			return nil, false
		}
		return v.Data, true
	case transport.Response:
		return v.Data, true
	case map[string]any:
		data, ok := v["data"]
		return data, ok
	default:
		return nil, false
	}
}

// truthy follows the loose truthiness backends' error payloads are written
// against: nil, false, zero, NaN and "" are false; everything else,
// including empty mappings and lists, is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case *transport.Response:
		return t != nil
	default:
		return true
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string][]string:
		out := make(map[string]any, len(t))
		for k, msgs := range t {
			out[k] = msgs
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, msg := range t {
			out[k] = msg
		}
		return out, true
	default:
		return nil, false
	}
}

func shallowCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
