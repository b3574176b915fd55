// Package build turns raw table records into the final type model: fields,
// inferred associations and the sorted table list.
package build

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/naming"
	"github.com/faucetdb/typegen/internal/scalar"
)

var notNullPattern = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)

// BuildField converts one raw column into a field. It returns false when the
// column yields no field (a blank definition).
func BuildField(col model.RawColumn) (model.FieldModel, bool) {
	var name, native string
	var required bool

	if row := col.Catalog; row != nil {
		name = row.ColumnName
		native = row.DataType
		required = !row.IsNullable
	} else {
		def := strings.TrimSpace(col.Definition)
		if def == "" {
			return model.FieldModel{}, false
		}
		var rest string
		name, rest = splitColumnName(def)
		native = scalar.NativeToken(rest)
		required = notNullPattern.MatchString(def)
	}

	if name == "" {
		return model.FieldModel{}, false
	}

	f := model.FieldModel{
		SourceName:     name,
		NormalizedName: normalizeFieldName(name),
		NativeType:     native,
		ScalarType:     scalar.MapType(native),
		Required:       required,
	}
	if f.NormalizedName != name {
		alias := name
		f.AliasSource = &alias
	}
	return f, true
}

// BuildFields builds every field of a table, sorted by normalized name.
func BuildFields(cols []model.RawColumn) []model.FieldModel {
	return buildFields(cols, naming.NewCollator())
}

func buildFields(cols []model.RawColumn, coll *naming.Collator) []model.FieldModel {
	fields := make([]model.FieldModel, 0, len(cols))
	for _, col := range cols {
		if f, ok := BuildField(col); ok {
			fields = append(fields, f)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if c := coll.Compare(fields[i].NormalizedName, fields[j].NormalizedName); c != 0 {
			return c < 0
		}
		return fields[i].SourceName < fields[j].SourceName
	})
	return fields
}

func normalizeFieldName(source string) string {
	if source == "id" {
		return model.ReservedIDName
	}
	return naming.SnakeToCamel(source)
}

// splitColumnName returns the first token of a column definition with its
// quotes removed, and the remainder. A quoted name may contain spaces.
func splitColumnName(def string) (name, rest string) {
	var closing byte
	switch def[0] {
	case '"', '\'', '`':
		closing = def[0]
	case '[':
		closing = ']'
	default:
		if i := strings.IndexFunc(def, unicode.IsSpace); i >= 0 {
			return stripQuotes(def[:i]), def[i:]
		}
		return stripQuotes(def), ""
	}

	for i := 1; i < len(def); i++ {
		if def[i] != closing {
			continue
		}
		if closing != ']' && i+1 < len(def) && def[i+1] == closing {
			i++ // doubled quote
			continue
		}
		inner := def[1:i]
		if closing != ']' {
			q := string(closing)
			inner = strings.ReplaceAll(inner, q+q, q)
		}
		return inner, def[i+1:]
	}
	// Unterminated quote: fall back to whitespace splitting.
	if i := strings.IndexFunc(def, unicode.IsSpace); i >= 0 {
		return stripQuotes(def[:i]), def[i:]
	}
	return stripQuotes(def), ""
}

func stripQuotes(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '`', '[', ']':
			return -1
		}
		return r
	}, s)
}

