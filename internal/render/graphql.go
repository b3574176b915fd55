package render

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/naming"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var graphqlTemplates = template.Must(
	template.New("graphql").
		Funcs(template.FuncMap{
			"quote":     strconv.Quote,
			"listField": listField,
		}).
		ParseFS(templateFS, "templates/*.graphql.tmpl"),
)

type objectView struct {
	Table        model.TableModel
	Associations []model.AssociationModel
}

func renderGraphQL(tables []model.TableModel, opts Options) ([]File, error) {
	var files []File

	if opts.objects() {
		for _, t := range tables {
			var buf bytes.Buffer
			view := objectView{Table: t, Associations: visibleAssociations(t)}
			if err := graphqlTemplates.ExecuteTemplate(&buf, "object.graphql.tmpl", view); err != nil {
				return nil, fmt.Errorf("render %s: %w", t.SourceName, err)
			}
			files = append(files, File{Name: t.SingularName + ".graphql", Content: buf.Bytes()})
		}
	}

	if opts.root() {
		var buf bytes.Buffer
		if err := graphqlTemplates.ExecuteTemplate(&buf, "schema.graphql.tmpl", tables); err != nil {
			return nil, fmt.Errorf("render schema: %w", err)
		}
		files = append(files, File{Name: "schema.graphql", Content: buf.Bytes()})
	}

	return files, nil
}

// visibleAssociations drops associations whose name is already used by a
// field of the same table.
func visibleAssociations(t model.TableModel) []model.AssociationModel {
	taken := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		taken[f.NormalizedName] = true
	}
	out := make([]model.AssociationModel, 0, len(t.Associations))
	for _, a := range t.Associations {
		if !taken[a.Name] {
			out = append(out, a)
		}
	}
	return out
}

// listField names the root query field returning every row of t.
func listField(t model.TableModel) string {
	plural := naming.Pluralize(t.CamelName)
	if plural == t.CamelName {
		return plural + "List"
	}
	return plural
}
