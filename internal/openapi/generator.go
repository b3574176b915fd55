package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/faucetdb/typegen/internal/model"
)

// Extension keys written on generated schemas.
const (
	ExtRelation     = "x-relation"
	ExtSourceColumn = "x-source-column"
	ExtTarget       = "x-target"
)

// DocInfo holds the metadata of a generated OpenAPI document.
type DocInfo struct {
	Title       string
	Description string
	ServerURL   string
}

// Generate builds an OpenAPI 3.1 document describing tables: one component
// schema per table and read-only list/get paths.
func Generate(info DocInfo, tables []model.TableModel) *openapi3.T {
	if info.Title == "" {
		info.Title = "Generated API"
	}
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       info.Title,
			Description: info.Description,
			Version:     "1.0.0",
		},
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: info.ServerURL}}
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	doc.Components = &components
	doc.Paths = openapi3.NewPaths()

	doc.Components.Schemas["ErrorResponse"] = errorResponseSchema()

	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t.PascalName] = true
	}
	for _, t := range tables {
		doc.Components.Schemas[t.PascalName] = tableSchema(t, known)
		addTablePaths(doc, t)
	}

	return doc
}

// addTablePaths registers GET /<table> and, for tables with an identity
// column, GET /<table>/{id}.
func addTablePaths(doc *openapi3.T, t model.TableModel) {
	tag := t.SourceName
	schemaRef := componentRef(t.PascalName)

	listResponseSchema := &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"resource": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: openapi3.NewSchemaRef(schemaRef, nil),
					},
				},
				"meta": metaSchema(),
			},
		},
	}

	doc.Paths.Set("/"+t.SourceName, &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{tag},
			Summary:     fmt.Sprintf("List %s records", t.SourceName),
			OperationID: fmt.Sprintf("list_%s", t.SourceName),
			Parameters:  listQueryParameters(),
			Responses:   newResponses("200", fmt.Sprintf("List of %s records", t.SourceName), listResponseSchema),
		},
	})

	if !t.HasIDField {
		return
	}

	idParam := openapi3.NewPathParameter("id").
		WithDescription(fmt.Sprintf("Identity of the %s record.", t.SingularName)).
		WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"})

	doc.Paths.Set(fmt.Sprintf("/%s/{id}", t.SourceName), &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{tag},
			Summary:     fmt.Sprintf("Get a %s record", t.SingularName),
			OperationID: fmt.Sprintf("get_%s", t.SingularName),
			Parameters:  openapi3.Parameters{&openapi3.ParameterRef{Value: idParam}},
			Responses:   newResponses("200", fmt.Sprintf("The %s record", t.SingularName), openapi3.NewSchemaRef(schemaRef, nil)),
		},
	})
}

// ─── Schema Builders ────────────────────────────────────────────────────────

// tableSchema converts a table to an object schema. Fields become typed
// properties; inferred associations reference the target component when it
// exists in the document.
func tableSchema(t model.TableModel, known map[string]bool) *openapi3.SchemaRef {
	props := openapi3.Schemas{}
	var required []string

	for _, f := range t.Fields {
		s := fieldSchema(f)
		props[f.NormalizedName] = &openapi3.SchemaRef{Value: s}
		if f.Required {
			required = append(required, f.NormalizedName)
		}
	}

	for _, a := range t.Associations {
		if _, taken := props[a.Name]; taken {
			continue
		}
		props[a.Name] = &openapi3.SchemaRef{Value: associationSchema(a, known)}
	}

	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:        &openapi3.Types{"object"},
			Description: fmt.Sprintf("Row of table %s.", t.SourceName),
			Properties:  props,
			Required:    required,
		},
	}
}

func fieldSchema(f model.FieldModel) *openapi3.Schema {
	m := MapField(f)
	s := &openapi3.Schema{
		Type:   &openapi3.Types{m.Type},
		Format: m.Format,
	}
	if !f.Required {
		s.Nullable = true
	}
	if alias := f.Alias(); alias != "" {
		s.Extensions = map[string]any{ExtSourceColumn: alias}
	}
	return s
}

func associationSchema(a model.AssociationModel, known map[string]bool) *openapi3.Schema {
	ext := map[string]any{
		ExtRelation:     string(a.Kind),
		ExtSourceColumn: a.SourceField,
	}
	if !known[a.TargetTypeName] {
		// The guessed target is not part of this document.
		ext[ExtTarget] = a.TargetTypeName
		return &openapi3.Schema{
			Type:       &openapi3.Types{"object"},
			Nullable:   true,
			Extensions: ext,
		}
	}
	return &openapi3.Schema{
		AllOf:      openapi3.SchemaRefs{openapi3.NewSchemaRef(componentRef(a.TargetTypeName), nil)},
		Extensions: ext,
	}
}

func errorResponseSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}
}

// ─── Query Parameter Builders ───────────────────────────────────────────────

func listQueryParameters() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("order").
				WithDescription("Sort order (e.g. \"title ASC\").").
				WithSchema(openapi3.NewStringSchema()),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("limit").
				WithDescription("Maximum number of records to return.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("offset").
				WithDescription("Number of records to skip before returning results.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}),
		},
	}
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// newResponses builds a Responses map with a success response and the shared
// error responses.
func newResponses(statusCode, description string, schema *openapi3.SchemaRef) *openapi3.Responses {
	responses := openapi3.NewResponses()

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	errorRef := openapi3.NewSchemaRef(componentRef("ErrorResponse"), nil)
	for _, r := range []struct{ code, desc string }{
		{"400", "Bad request"},
		{"404", "Not found"},
		{"500", "Internal server error"},
	} {
		desc := r.desc
		responses.Set(r.code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &desc,
				Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
			},
		})
	}

	return responses
}

func metaSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"count": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:        &openapi3.Types{"integer"},
						Format:      "int64",
						Description: "Number of records returned.",
					},
				},
				"took_ms": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:        &openapi3.Types{"number"},
						Format:      "double",
						Description: "Server-side processing time in milliseconds.",
					},
				},
			},
		},
	}
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}
