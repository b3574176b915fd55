package render

import (
	"encoding/json"
	"fmt"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/openapi"
)

func renderJSON(tables []model.TableModel, opts Options) ([]File, error) {
	var files []File

	if opts.objects() {
		for _, t := range tables {
			data, err := marshal(t)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", t.SourceName, err)
			}
			files = append(files, File{Name: t.SingularName + ".json", Content: data})
		}
	}

	if opts.root() {
		data, err := marshal(tables)
		if err != nil {
			return nil, fmt.Errorf("render model: %w", err)
		}
		files = append(files, File{Name: "model.json", Content: data})
	}

	return files, nil
}

// renderOpenAPI emits the whole document as openapi.json. With ObjectsOnly
// it emits each table's component schema on its own instead.
func renderOpenAPI(tables []model.TableModel, opts Options) ([]File, error) {
	doc := openapi.Generate(openapi.DocInfo{Title: opts.Title}, tables)

	if opts.ObjectsOnly {
		files := make([]File, 0, len(tables))
		for _, t := range tables {
			data, err := marshal(doc.Components.Schemas[t.PascalName])
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", t.SourceName, err)
			}
			files = append(files, File{Name: t.SingularName + ".schema.json", Content: data})
		}
		return files, nil
	}

	data, err := marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render openapi: %w", err)
	}
	return []File{{Name: "openapi.json", Content: data}}, nil
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
