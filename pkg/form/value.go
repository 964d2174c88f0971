package form

import (
	"fmt"
	"math"

	"github.com/goliatone/go-formclient/pkg/payload"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindFile
	KindFiles
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindFile:
		return "file"
	case KindFiles:
		return "files"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single form field value: a string, boolean, number, file, or
// list of files. The zero Value is the empty string.
type Value struct {
	kind    Kind
	text    string
	boolean bool
	number  float64
	files   []payload.File
}

// Fields maps field names to values.
type Fields map[string]Value

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// Int returns a numeric value from an int.
func Int(n int) Value {
	return Number(float64(n))
}

// File returns a single file value.
func File(file payload.File) Value {
	return Value{kind: KindFile, files: []payload.File{file}}
}

// Files returns a file list value. An empty list is still a file value.
func Files(files ...payload.File) Value {
	return Value{kind: KindFiles, files: append([]payload.File{}, files...)}
}

// ValueOf converts common Go values. Unknown types are stored as their fmt
// representation.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return String("")
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(t)
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case payload.File:
		return File(t)
	case *payload.File:
		if t == nil {
			return String("")
		}
		return File(*t)
	case []payload.File:
		return Files(t...)
	default:
		return String(fmt.Sprint(t))
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsFile reports whether the value is a file or a file list.
func (v Value) IsFile() bool {
	return v.kind == KindFile || v.kind == KindFiles
}

// Text returns the string payload; "" for other kinds.
func (v Value) Text() string {
	return v.text
}

// Boolean returns the boolean payload; false for other kinds.
func (v Value) Boolean() bool {
	return v.boolean
}

// Float returns the numeric payload; 0 for other kinds.
func (v Value) Float() float64 {
	return v.number
}

// FileList returns a copy of the attached files. A KindFile value yields a
// single element.
func (v Value) FileList() []payload.File {
	if !v.IsFile() {
		return nil
	}
	return append([]payload.File(nil), v.files...)
}

// Interface returns the plain Go value used for JSON bodies.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return v.number
	case KindFile:
		return v.files[0]
	case KindFiles:
		return v.FileList()
	default:
		return v.text
	}
}

// String renders the value as a form field would carry it.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return payload.Stringify(v.boolean)
	case KindNumber:
		if math.IsInf(v.number, 0) || math.IsNaN(v.number) {
			return fmt.Sprint(v.number)
		}
		return payload.Stringify(v.number)
	case KindFile:
		return v.files[0].Name
	case KindFiles:
		return fmt.Sprintf("[%d files]", len(v.files))
	default:
		return v.text
	}
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.boolean == other.boolean
	case KindNumber:
		return v.number == other.number
	case KindFile, KindFiles:
		if len(v.files) != len(other.files) {
			return false
		}
		for i := range v.files {
			a, b := v.files[i], other.files[i]
			if a.Name != b.Name || a.ContentType != b.ContentType || string(a.Content) != string(b.Content) {
				return false
			}
		}
		return true
	default:
		return v.text == other.text
	}
}
