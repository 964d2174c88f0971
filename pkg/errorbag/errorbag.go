// Package errorbag holds server-reported error messages keyed by field name.
package errorbag

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Bag stores zero or more messages per field. It is owned by a single form
// which replaces its contents wholesale; UI goroutines may read concurrently.
type Bag struct {
	mu       sync.RWMutex
	messages map[string][]string
	sanitize func(string) string
}

// Option configures a Bag.
type Option func(*Bag)

// WithSanitizer filters every message stored through Set.
func WithSanitizer(fn func(string) string) Option {
	return func(b *Bag) {
		b.sanitize = fn
	}
}

// New returns an empty Bag.
func New(opts ...Option) *Bag {
	b := &Bag{messages: make(map[string][]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Clear removes every entry.
func (b *Bag) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = make(map[string][]string)
}

// Set replaces the bag contents with errors. Each value is normalised into a
// message list: strings become one message, slices one message per element,
// anything else its fmt representation. Nil values and blank messages are
// dropped.
func (b *Bag) Set(errors map[string]any) {
	next := make(map[string][]string, len(errors))
	for field, raw := range errors {
		msgs := b.normalize(raw)
		if len(msgs) == 0 {
			continue
		}
		next[field] = msgs
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = next
}

// Forget removes a single field.
func (b *Bag) Forget(field string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.messages, field)
}

// Has reports whether field has at least one message.
func (b *Bag) Has(field string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages[field]) > 0
}

// Get returns the first message for field, or "".
func (b *Bag) Get(field string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if msgs := b.messages[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Messages returns a copy of every message for field.
func (b *Bag) Messages(field string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.messages[field]...)
}

// Any reports whether the bag holds any message.
func (b *Bag) Any() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages) > 0
}

// Fields returns the field names with messages, sorted.
func (b *Bag) Fields() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fields := make([]string, 0, len(b.messages))
	for field := range b.messages {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// All returns a deep copy of the bag contents.
func (b *Bag) All() map[string][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string][]string, len(b.messages))
	for field, msgs := range b.messages {
		out[field] = append([]string(nil), msgs...)
	}
	return out
}

// Flatten returns every message ordered by field name.
func (b *Bag) Flatten() []string {
	var out []string
	for _, field := range b.Fields() {
		out = append(out, b.Messages(field)...)
	}
	return out
}

func (b *Bag) normalize(raw any) []string {
	var msgs []string
	appendMsg := func(value any) {
		if value == nil {
			return
		}
		msg := fmt.Sprint(value)
		if b.sanitize != nil {
			msg = b.sanitize(msg)
		}
		if strings.TrimSpace(msg) == "" {
			return
		}
		msgs = append(msgs, msg)
	}

	switch v := raw.(type) {
	case nil:
	case []string:
		for _, item := range v {
			appendMsg(item)
		}
	case []any:
		for _, item := range v {
			appendMsg(item)
		}
	default:
		appendMsg(v)
	}
	return msgs
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// StrictSanitizer strips every HTML element from a message, leaving text
// content. Use it with WithSanitizer when messages are rendered as markup.
func StrictSanitizer() func(string) string {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return func(msg string) string {
		return strings.TrimSpace(strictPolicy.Sanitize(msg))
	}
}
