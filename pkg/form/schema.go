package form

import pkgopenapi "github.com/goliatone/go-formclient/pkg/openapi"

// FieldsFromSchema seeds fields from an object request body schema. Each
// property starts at its declared default, or the empty value of its type:
// "" for strings, false for booleans, 0 for numbers and an empty file list
// for binary content.
func FieldsFromSchema(schema pkgopenapi.Schema) Fields {
	fields := make(Fields, len(schema.Properties))
	for _, name := range schema.PropertyNames() {
		fields[name] = seedValue(schema.Properties[name])
	}
	return fields
}

func seedValue(prop pkgopenapi.Schema) Value {
	if prop.IsBinary() || (prop.Type == "array" && prop.Items != nil && prop.Items.IsBinary()) {
		return Files()
	}
	if prop.Default != nil {
		return ValueOf(prop.Default)
	}
	switch prop.Type {
	case "boolean":
		return Bool(false)
	case "integer", "number":
		return Number(0)
	default:
		return String("")
	}
}
