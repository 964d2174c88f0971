package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formclient/pkg/openapi"
)

func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	return convertSchemaSeen(ref, make(map[*openapi3.Schema]bool))
}

// convertSchemaSeen tracks the schemas on the current branch so recursive
// $refs terminate, keeping only the reference on the repeated node.
func convertSchemaSeen(ref *openapi3.SchemaRef, seen map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil || seen[ref.Value] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	src := ref.Value
	seen[src] = true
	defer delete(seen, src)

	schema := pkgopenapi.Schema{
		Ref:     ref.Ref,
		Type:    firstSchemaType(src.Type),
		Format:  src.Format,
		Default: src.Default,
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchemaSeen(property, seen)
		}
	}
	if src.Items != nil {
		items := convertSchemaSeen(src.Items, seen)
		schema.Items = &items
	}
	for _, part := range src.AllOf {
		mergeAllOf(&schema, convertSchemaSeen(part, seen))
	}
	return schema
}

func mergeAllOf(target *pkgopenapi.Schema, part pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = part.Type
	}
	if target.Format == "" {
		target.Format = part.Format
	}
	if len(part.Properties) > 0 {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(part.Properties))
		}
		for name, property := range part.Properties {
			if _, exists := target.Properties[name]; !exists {
				target.Properties[name] = property
			}
		}
	}
	for _, name := range part.Required {
		if !contains(target.Required, name) {
			target.Required = append(target.Required, name)
		}
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
