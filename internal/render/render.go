// Package render turns an assembled table model into output files. The
// model is never modified; every renderer reads the same slice.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/faucetdb/typegen/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatGraphQL Format = "graphql"
	FormatOpenAPI Format = "openapi"
	FormatJSON    Format = "json"
)

// Formats lists every supported format, default first.
func Formats() []Format {
	return []Format{FormatGraphQL, FormatOpenAPI, FormatJSON}
}

// ParseFormat validates a format name. The empty string selects graphql.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatGraphQL, nil
	}
	for _, f := range Formats() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want graphql, openapi or json)", s)
}

// ErrConflictingScope is returned when both ObjectsOnly and RootOnly are set.
var ErrConflictingScope = errors.New("objects-only and root-only are mutually exclusive")

// ErrDuplicateType is returned when two tables derive the same type or file
// name, e.g. "people" and "person".
var ErrDuplicateType = errors.New("tables derive the same type name")

// Options selects what is rendered.
type Options struct {
	Format Format
	// ObjectsOnly renders one file per table and skips the aggregate file.
	ObjectsOnly bool
	// RootOnly renders only the aggregate file.
	RootOnly bool
	// Title is used by formats that carry document metadata.
	Title string
}

// File is one rendered output file. Name is relative to the output directory.
type File struct {
	Name    string
	Content []byte
}

// Render renders tables in the requested format. Zero tables produce zero
// files.
func Render(tables []model.TableModel, opts Options) ([]File, error) {
	if opts.ObjectsOnly && opts.RootOnly {
		return nil, ErrConflictingScope
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}
	if err := checkTypeNames(tables); err != nil {
		return nil, err
	}

	switch format {
	case FormatOpenAPI:
		return renderOpenAPI(tables, opts)
	case FormatJSON:
		return renderJSON(tables, opts)
	default:
		return renderGraphQL(tables, opts)
	}
}

func (o Options) objects() bool { return !o.RootOnly }
func (o Options) root() bool    { return !o.ObjectsOnly }

// checkTypeNames rejects models in which two tables share a singular or
// Pascal name. Every format keys its output on those names.
func checkTypeNames(tables []model.TableModel) error {
	singular := make(map[string]string, len(tables))
	pascal := make(map[string]string, len(tables))
	for _, t := range tables {
		if prev, ok := singular[t.SingularName]; ok {
			return fmt.Errorf("%w: %q and %q both render as %q", ErrDuplicateType, prev, t.SourceName, t.SingularName)
		}
		if prev, ok := pascal[t.PascalName]; ok {
			return fmt.Errorf("%w: %q and %q both render as type %s", ErrDuplicateType, prev, t.SourceName, t.PascalName)
		}
		singular[t.SingularName] = t.SourceName
		pascal[t.PascalName] = t.SourceName
	}
	return nil
}
