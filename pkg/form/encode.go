package form

import "github.com/goliatone/go-formclient/pkg/payload"

// HasFile reports whether any field holds a file or file list.
func HasFile(fields Fields) bool {
	for _, value := range fields {
		if value.IsFile() {
			return true
		}
	}
	return false
}

// ToFormData encodes fields as multipart entries, in name order. File lists
// are appended once per file under "name[]", keeping list order.
func ToFormData(fields Fields) *payload.FormData {
	return toFormData(sortedNames(fields), fields)
}

func toFormData(names []string, fields Fields) *payload.FormData {
	data := payload.NewFormData()
	for _, name := range names {
		value, ok := fields[name]
		if !ok {
			continue
		}
		switch value.Kind() {
		case KindFiles:
			for _, file := range value.FileList() {
				data.AppendFile(name+"[]", file)
			}
		case KindFile:
			data.AppendFile(name, value.FileList()[0])
		default:
			data.Append(name, value.String())
		}
	}
	return data
}
