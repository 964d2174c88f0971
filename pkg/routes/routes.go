// Package routes maps symbolic route names to URL templates and resolves
// them into concrete URLs.
//
// Templates carry "{param}" placeholders:
//
//	table := routes.New(map[string]string{"user.show": "/users/{id}"})
//	table.Resolve("user.show", 5)                        // "/users/5"
//	table.Resolve("post.show", routes.Params{"slug": "x"}) // "post.show"
//
// Unknown names resolve to themselves, so raw URLs can be passed wherever a
// route name is accepted.
package routes

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formclient/pkg/payload"
)

// Params carries placeholder substitutions.
type Params map[string]any

// Table is a concurrency-safe name → template mapping. The zero value is
// ready to use.
type Table struct {
	mu        sync.RWMutex
	templates map[string]string
}

// New returns a table seeded with templates.
func New(templates map[string]string) *Table {
	t := &Table{templates: make(map[string]string, len(templates))}
	for name, template := range templates {
		t.templates[name] = template
	}
	return t
}

// Add registers or replaces a template.
func (t *Table) Add(name, template string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.templates == nil {
		t.templates = make(map[string]string)
	}
	t.templates[name] = template
}

// Merge copies every entry of other into t; other wins on collision.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for name, template := range other.All() {
		t.Add(name, template)
	}
}

// Lookup returns the raw template registered under name.
func (t *Table) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	template, ok := t.templates[name]
	return template, ok
}

// Names returns the registered route names, sorted.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.templates))
	for name := range t.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the table.
func (t *Table) All() map[string]string {
	out := make(map[string]string)
	if t == nil {
		return out
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for name, template := range t.templates {
		out[name] = template
	}
	return out
}

// Len reports the number of routes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.templates)
}

// Resolve turns a route name into a URL.
//
// A registered name yields its template with percent-escapes decoded the way
// a browser's decodeURI does; any other name is used verbatim. params may be
// nil, a map keyed by placeholder, or a bare scalar which is shorthand for
// {"id": scalar}. Each key replaces the first "{key}" occurrence; unmatched
// placeholders stay in place and unused keys are ignored.
func (t *Table) Resolve(name string, params any) string {
	url := name
	if template, ok := t.Lookup(name); ok {
		url = DecodeURI(template)
	}

	values := normalizeParams(params)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		url = strings.Replace(url, "{"+key+"}", values[key], 1)
	}
	return url
}

func normalizeParams(params any) map[string]string {
	switch p := params.(type) {
	case nil:
		return nil
	case Params:
		return stringifyMap(p)
	case map[string]any:
		return stringifyMap(p)
	case map[string]string:
		out := make(map[string]string, len(p))
		for k, v := range p {
			out[k] = v
		}
		return out
	default:
		if values, ok := reflectMap(p); ok {
			return values
		}
		return map[string]string{"id": payload.Stringify(p)}
	}
}

// reflectMap stringifies any other map keyed by strings, such as
// map[string]int.
func reflectMap(params any) (map[string]string, bool) {
	rv := reflect.ValueOf(params)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = payload.Stringify(iter.Value().Interface())
	}
	return out, true
}

func stringifyMap(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = payload.Stringify(v)
	}
	return out
}

// reservedURI holds the characters decodeURI leaves escaped.
const reservedURI = ";/?:@&=+$,#"

// DecodeURI resolves percent-escapes except those encoding URI reserved
// characters. Malformed input is returned unchanged.
func DecodeURI(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var (
		out     strings.Builder
		pending []byte
	)
	flush := func() bool {
		if len(pending) == 0 {
			return true
		}
		if !utf8.Valid(pending) {
			return false
		}
		out.Write(pending)
		pending = pending[:0]
		return true
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			if !flush() {
				return s
			}
			out.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return s
		}
		b, ok := unhex(s[i+1], s[i+2])
		if !ok {
			return s
		}
		if b < 0x80 && strings.IndexByte(reservedURI, b) >= 0 {
			if !flush() {
				return s
			}
			out.WriteString(s[i : i+3])
		} else {
			pending = append(pending, b)
		}
		i += 2
	}
	if !flush() {
		return s
	}
	return out.String()
}

func unhex(hi, lo byte) (byte, bool) {
	h, ok1 := fromHex(hi)
	l, ok2 := fromHex(lo)
	if !ok1 || !ok2 {
		return 0, false
	}
	return h<<4 | l, true
}

func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// String renders the table for debugging.
func (t *Table) String() string {
	names := t.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		template, _ := t.Lookup(name)
		parts = append(parts, fmt.Sprintf("%s=%s", name, template))
	}
	return "routes{" + strings.Join(parts, ", ") + "}"
}
