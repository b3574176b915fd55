package build

import (
	"sort"
	"strings"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/naming"
)

const (
	foreignKeySuffix = "_id"
	normalizedSuffix = "Id"
)

// InferAssociations derives a belongs-to association from every field whose
// source column ends in "_id". The target type is a guess from the column
// name; no constraint lookup is done, so each result is marked inferred.
// The identity column "id" never matches.
func InferAssociations(fields []model.FieldModel) []model.AssociationModel {
	return inferAssociations(fields, naming.NewCollator())
}

func inferAssociations(fields []model.FieldModel, coll *naming.Collator) []model.AssociationModel {
	assocs := []model.AssociationModel{}
	for _, f := range fields {
		if !strings.HasSuffix(f.SourceName, foreignKeySuffix) {
			continue
		}
		name := strings.TrimSuffix(f.NormalizedName, normalizedSuffix)
		if name == "" {
			continue
		}
		assocs = append(assocs, model.AssociationModel{
			Name:           name,
			TargetTypeName: naming.ToPascal(name),
			SourceField:    f.SourceName,
			Kind:           model.RelationInferred,
		})
	}

	sort.SliceStable(assocs, func(i, j int) bool {
		if c := coll.Compare(assocs[i].Name, assocs[j].Name); c != 0 {
			return c < 0
		}
		return assocs[i].SourceField < assocs[j].SourceField
	})
	return assocs
}
