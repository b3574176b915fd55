// Package naming converts identifiers between the snake_case names used in
// relational schemas and the camelCase / PascalCase names used in generated
// API types.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// SnakeToCamel collapses runs of underscores into one, then removes each
// remaining underscore and upper-cases the character after it.
//
//	"first_name" -> "firstName"
//	"user__id"   -> "userId"
//
// A trailing underscore has nothing to upper-case and is kept.
func SnakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '_' {
			b.WriteRune(r)
			continue
		}

		// Skip the rest of the underscore run.
		j := i
		for j+1 < len(runes) && runes[j+1] == '_' {
			j++
		}
		if j+1 == len(runes) {
			b.WriteRune('_')
			break
		}
		b.WriteRune(unicode.ToUpper(runes[j+1]))
		i = j + 1
	}
	return b.String()
}

// ToPascal upper-cases the first character of s.
func ToPascal(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Singularize returns the English singular form of s ("people" -> "person",
// "boxes" -> "box"). It is meant for table names, not field names.
func Singularize(s string) string {
	if s == "" {
		return s
	}
	return inflection.Singular(s)
}

// Pluralize returns the English plural form of s.
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	return inflection.Plural(s)
}

// TableNames holds every name derived from a table's source name.
type TableNames struct {
	Source   string
	Singular string
	Camel    string
	Pascal   string
}

// DeriveTableNames computes the singular, camel and pascal names of a table.
// All three are pure functions of source.
func DeriveTableNames(source string) TableNames {
	singular := Singularize(source)
	camel := SnakeToCamel(singular)
	return TableNames{
		Source:   source,
		Singular: singular,
		Camel:    camel,
		Pascal:   ToPascal(camel),
	}
}
