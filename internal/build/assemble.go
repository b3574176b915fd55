package build

import (
	"sort"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/naming"
)

// Assemble builds the final table model from raw records. Tables are sorted
// by camel name; when two records share a source name the later one wins.
// The result is freshly allocated on every call.
func Assemble(raw []model.RawTable) []model.TableModel {
	coll := naming.NewCollator()

	index := make(map[string]int, len(raw))
	tables := make([]model.TableModel, 0, len(raw))
	for _, rt := range raw {
		fields := buildFields(rt.Columns, coll)
		t := model.TableModel{
			SourceName:   rt.SourceName,
			SingularName: rt.SingularName,
			CamelName:    rt.CamelName,
			PascalName:   rt.PascalName,
			HasIDField:   hasIDField(fields),
			Fields:       fields,
			Associations: inferAssociations(fields, coll),
		}
		if i, dup := index[rt.SourceName]; dup {
			tables[i] = t
			continue
		}
		index[rt.SourceName] = len(tables)
		tables = append(tables, t)
	}

	sort.SliceStable(tables, func(i, j int) bool {
		if c := coll.Compare(tables[i].CamelName, tables[j].CamelName); c != 0 {
			return c < 0
		}
		return tables[i].SourceName < tables[j].SourceName
	})
	return tables
}

// hasIDField reports whether fields contain a NOT NULL integer "id" column.
func hasIDField(fields []model.FieldModel) bool {
	for _, f := range fields {
		if f.SourceName == "id" && f.ScalarType == model.ScalarInt && f.Required {
			return true
		}
	}
	return false
}
