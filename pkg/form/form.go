package form

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/goliatone/go-formclient/pkg/errorbag"
	"github.com/goliatone/go-formclient/pkg/routes"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// State is the submission lifecycle position.
type State int

const (
	Idle State = iota
	Processing
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Processing:
		return "processing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Form is a submittable form: an ordered set of fields plus the busy,
// successful and errors attributes UI layers bind to.
//
// Busy is advisory. Nothing stops a second submission while one is in
// flight; flag and error updates then land in completion order.
type Form struct {
	mu         sync.RWMutex
	names      []string
	values     map[string]Value
	busy       bool
	successful bool
	failed     bool

	errors    *errorbag.Bag
	transport transport.Transport
	routes    *routes.Table
	reserved  map[string]struct{}
	logger    *slog.Logger
}

// New builds a form from data, overlaid with any WithMerge fields. Reserved
// names are dropped from both.
func New(data Fields, opts ...Option) *Form {
	s := newSettings(opts)

	f := &Form{
		values:    make(map[string]Value, len(data)+len(s.merge)),
		errors:    s.bag,
		transport: s.Transport,
		routes:    s.Routes,
		reserved:  make(map[string]struct{}, len(s.Reserved)),
		logger:    s.Logger,
	}
	for _, name := range s.Reserved {
		f.reserved[name] = struct{}{}
	}

	for _, name := range sortedNames(data) {
		f.assign(name, data[name])
	}
	for _, name := range sortedNames(s.merge) {
		f.assign(name, s.merge[name])
	}
	return f
}

// IsReserved reports whether name is a bookkeeping attribute.
func (f *Form) IsReserved(name string) bool {
	_, ok := f.reserved[name]
	return ok
}

// assign must be called with f.mu held (or during construction).
func (f *Form) assign(name string, value Value) bool {
	if f.IsReserved(name) {
		return false
	}
	if _, exists := f.values[name]; !exists {
		f.names = append(f.names, name)
	}
	f.values[name] = value
	return true
}

// Set overwrites every field in fields, adding the ones not yet present.
func (f *Form) Set(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range sortedNames(fields) {
		if !f.assign(name, fields[name]) {
			f.logger.Debug("form: ignoring reserved field", "field", name)
		}
	}
}

// SetValue assigns a single field.
func (f *Form) SetValue(name string, value Value) {
	f.Set(Fields{name: value})
}

// Value returns the value of a field.
func (f *Form) Value(name string) (Value, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[name]
	return v, ok
}

// Names returns the field names in insertion order.
func (f *Form) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.names...)
}

// Data returns a snapshot of every field, reserved attributes excluded.
func (f *Form) Data() Fields {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(Fields, len(f.values))
	for name, value := range f.values {
		out[name] = value
	}
	return out
}

// Reset sets every field to the empty string. Status and errors are left
// untouched.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range f.names {
		f.values[name] = String("")
	}
}

// Clear empties the error bag and drops the success flag. Field values and
// busy are left untouched.
func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors.Clear()
	f.successful = false
	f.failed = false
}

// StartProcessing enters the processing state from any prior state.
func (f *Form) StartProcessing() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors.Clear()
	f.busy = true
	f.successful = false
	f.failed = false
}

// FinishProcessing marks the submission successful.
func (f *Form) FinishProcessing() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	f.successful = true
	f.failed = false
}

// failProcessing records a failed submission. successful is
// left as-is.
func (f *Form) failProcessing(errs map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	f.failed = true
	f.errors.Set(errs)
}

// Busy reports whether a submission is in flight.
func (f *Form) Busy() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.busy
}

// Successful reports whether the last submission succeeded.
func (f *Form) Successful() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.successful
}

// Errors returns the form's error bag.
func (f *Form) Errors() *errorbag.Bag {
	return f.errors
}

// State derives the lifecycle state from the flags.
func (f *Form) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	switch {
	case f.busy:
		return Processing
	case f.failed:
		return Failed
	case f.successful:
		return Succeeded
	default:
		return Idle
	}
}

func sortedNames(fields Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
