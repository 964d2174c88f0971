package payload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Body is the sealed set of request payload variants.
type Body interface {
	isBody()
}

// JSON is a plain field mapping sent as application/json.
type JSON map[string]any

func (JSON) isBody() {}

// Params asks the transport to send Body as query parameters.
type Params struct {
	Body Body
}

func (Params) isBody() {}

// File is a binary blob attached to a form.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Size returns the content length in bytes.
func (f File) Size() int {
	return len(f.Content)
}

// Entry is a single multipart part. File is nil for scalar entries.
type Entry struct {
	Name  string
	Value string
	File  *File
}

// IsFile reports whether the entry carries a file part.
func (e Entry) IsFile() bool {
	return e.File != nil
}

// FormData is an ordered list of multipart entries. Repeated names are
// allowed and keep their append order.
type FormData struct {
	entries []Entry
}

func (*FormData) isBody() {}

// NewFormData returns an empty FormData.
func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a scalar entry.
func (d *FormData) Append(name, value string) {
	d.entries = append(d.entries, Entry{Name: name, Value: value})
}

// AppendFile adds a file entry.
func (d *FormData) AppendFile(name string, file File) {
	f := file
	d.entries = append(d.entries, Entry{Name: name, File: &f})
}

// Entries returns a copy of the entries in append order.
func (d *FormData) Entries() []Entry {
	if d == nil {
		return nil
	}
	return append([]Entry(nil), d.entries...)
}

// Values returns every entry appended under name.
func (d *FormData) Values(name string) []Entry {
	if d == nil {
		return nil
	}
	var out []Entry
	for _, entry := range d.entries {
		if entry.Name == name {
			out = append(out, entry)
		}
	}
	return out
}

// Len reports the number of entries.
func (d *FormData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// WriteTo encodes the entries as multipart/form-data into w and returns the
// content type, boundary included.
func (d *FormData) WriteTo(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)
	for _, entry := range d.Entries() {
		if !entry.IsFile() {
			if err := mw.WriteField(entry.Name, entry.Value); err != nil {
				return "", fmt.Errorf("payload: write field %q: %w", entry.Name, err)
			}
			continue
		}
		part, err := mw.CreatePart(fileHeader(entry.Name, *entry.File))
		if err != nil {
			return "", fmt.Errorf("payload: create part %q: %w", entry.Name, err)
		}
		if _, err := part.Write(entry.File.Content); err != nil {
			return "", fmt.Errorf("payload: write part %q: %w", entry.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("payload: close multipart: %w", err)
	}
	return mw.FormDataContentType(), nil
}

// Encode is a convenience wrapper returning the multipart bytes.
func (d *FormData) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	contentType, err := d.WriteTo(&buf)
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentType, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(name string, file File) textproto.MIMEHeader {
	filename := file.Name
	if filename == "" {
		filename = "blob"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}

// Query flattens a body into query values. JSON lists are rendered under
// "key[]"; file entries are skipped because they cannot travel in a URL.
func Query(body Body) url.Values {
	values := url.Values{}
	switch b := body.(type) {
	case Params:
		return Query(b.Body)
	case JSON:
		keys := make([]string, 0, len(b))
		for key := range b {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			addQueryValue(values, key, b[key])
		}
	case *FormData:
		for _, entry := range b.Entries() {
			if entry.IsFile() {
				continue
			}
			values.Add(entry.Name, entry.Value)
		}
	}
	return values
}

func addQueryValue(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
		values.Add(key, "")
	case []any:
		for _, item := range v {
			addQueryValue(values, key+"[]", item)
		}
	case []string:
		for _, item := range v {
			values.Add(key+"[]", item)
		}
	case File, *File, []File:
	default:
		values.Add(key, Stringify(v))
	}
}

// Stringify renders a scalar the way a browser would place it in a form
// field: booleans as true/false, numbers without trailing zeros.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
