package openapi

import (
	"strings"

	"github.com/faucetdb/typegen/internal/model"
)

// TypeMapping is an OpenAPI type/format pair.
type TypeMapping struct {
	Type   string // OpenAPI type: string, integer, number, boolean
	Format string // OpenAPI format: int32, double, date, date-time, etc.
}

// scalarToOpenAPI covers the whole scalar vocabulary.
var scalarToOpenAPI = map[model.ScalarType]TypeMapping{
	model.ScalarInt:     {"integer", "int32"},
	model.ScalarFloat:   {"number", "double"},
	model.ScalarBoolean: {"boolean", ""},
	model.ScalarString:  {"string", ""},
}

// stringFormats refines String fields whose native type carries a
// well-known format. Keys are letters-only native type tokens.
var stringFormats = map[string]string{
	"date":      "date",
	"datetime":  "date-time",
	"timestamp": "date-time",
	"uuid":      "uuid",
}

// MapField converts a field to an OpenAPI type mapping. The scalar type
// decides the OpenAPI type; the native type only adds a format to strings.
func MapField(f model.FieldModel) TypeMapping {
	m, ok := scalarToOpenAPI[f.ScalarType]
	if !ok {
		m = scalarToOpenAPI[model.ScalarString]
	}
	if m.Type == "string" {
		m.Format = stringFormats[strings.ToLower(f.NativeType)]
	}
	return m
}
