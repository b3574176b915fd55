// Package scalar maps native column type tokens onto the closed scalar
// vocabulary used by generated API types.
package scalar

import (
	"strings"
	"unicode"

	"github.com/faucetdb/typegen/internal/model"
)

// nativeToScalar is read-only for the life of the process. Keys are matched
// exactly and case-sensitively against the extracted type token, which has
// already been reduced to letters (e.g. "character(255)" -> "character").
var nativeToScalar = map[string]model.ScalarType{
	"integer":   model.ScalarInt,
	"boolean":   model.ScalarBoolean,
	"character": model.ScalarString,
	"text":      model.ScalarString,
	"timestamp": model.ScalarString,
	"tsvector":  model.ScalarString,
	"date":      model.ScalarString,
	"datetime":  model.ScalarString,
	"double":    model.ScalarFloat,
	"float":     model.ScalarFloat,
}

// Fallback is the scalar returned for any type not in the table.
const Fallback = model.ScalarString

// MapType returns the scalar for a native type token, or Fallback.
func MapType(nativeType string) model.ScalarType {
	if s, ok := nativeToScalar[nativeType]; ok {
		return s
	}
	return Fallback
}

// Known reports whether nativeType has an explicit mapping.
func Known(nativeType string) bool {
	_, ok := nativeToScalar[nativeType]
	return ok
}

// NativeToken reduces a column type to the token MapType expects: the first
// word with everything but letters removed. "character(255)" becomes
// "character", "double precision" becomes "double". Case is preserved.
func NativeToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, fields[0])
}
