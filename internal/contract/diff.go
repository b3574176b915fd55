package contract

import (
	"fmt"
	"sort"

	"github.com/faucetdb/typegen/internal/model"
)

// DiffTable compares the locked model of a table against its current model.
// Fields are matched by normalized name and associations by name.
func DiffTable(locked, current model.TableModel) TableReport {
	report := TableReport{TableName: locked.SourceName}

	currentFields := make(map[string]model.FieldModel, len(current.Fields))
	for _, f := range current.Fields {
		currentFields[f.NormalizedName] = f
	}
	lockedFields := make(map[string]bool, len(locked.Fields))
	for _, f := range locked.Fields {
		lockedFields[f.NormalizedName] = true
	}

	for _, lf := range locked.Fields {
		cf, exists := currentFields[lf.NormalizedName]
		if !exists {
			report.add(DriftItem{
				Type:        DriftBreaking,
				Category:    CategoryFieldRemoved,
				FieldName:   lf.NormalizedName,
				OldValue:    string(lf.ScalarType),
				Description: fmt.Sprintf("Field %q was removed from %q", lf.NormalizedName, locked.SourceName),
			})
			continue
		}

		if lf.ScalarType != cf.ScalarType {
			report.add(DriftItem{
				Type:        DriftBreaking,
				Category:    CategoryTypeChanged,
				FieldName:   lf.NormalizedName,
				OldValue:    string(lf.ScalarType),
				NewValue:    string(cf.ScalarType),
				Description: fmt.Sprintf("Field %q type changed from %s to %s", lf.NormalizedName, lf.ScalarType, cf.ScalarType),
			})
		}

		// Clients may rely on a required field being present.
		if lf.Required && !cf.Required {
			report.add(DriftItem{
				Type:        DriftBreaking,
				Category:    CategoryRequiredChanged,
				FieldName:   lf.NormalizedName,
				OldValue:    "required",
				NewValue:    "optional",
				Description: fmt.Sprintf("Field %q is no longer required", lf.NormalizedName),
			})
		} else if !lf.Required && cf.Required {
			report.add(DriftItem{
				Type:        DriftAdditive,
				Category:    CategoryRequiredChanged,
				FieldName:   lf.NormalizedName,
				OldValue:    "optional",
				NewValue:    "required",
				Description: fmt.Sprintf("Field %q is now required", lf.NormalizedName),
			})
		}
	}

	for _, cf := range current.Fields {
		if !lockedFields[cf.NormalizedName] {
			report.add(DriftItem{
				Type:        DriftAdditive,
				Category:    CategoryFieldAdded,
				FieldName:   cf.NormalizedName,
				NewValue:    string(cf.ScalarType),
				Description: fmt.Sprintf("Field %q was added to %q", cf.NormalizedName, locked.SourceName),
			})
		}
	}

	diffAssociations(&report, locked.Associations, current.Associations)

	for i := range report.Items {
		report.Items[i].TableName = locked.SourceName
	}
	report.HasDrift = len(report.Items) > 0
	report.HasBreaking = report.BreakingCount > 0
	return report
}

func diffAssociations(report *TableReport, locked, current []model.AssociationModel) {
	currentByName := make(map[string]model.AssociationModel, len(current))
	for _, a := range current {
		currentByName[a.Name] = a
	}
	lockedByName := make(map[string]bool, len(locked))
	for _, a := range locked {
		lockedByName[a.Name] = true
	}

	for _, la := range locked {
		ca, exists := currentByName[la.Name]
		switch {
		case !exists:
			report.add(DriftItem{
				Type:        DriftBreaking,
				Category:    CategoryAssociationRemoved,
				FieldName:   la.Name,
				OldValue:    la.TargetTypeName,
				Description: fmt.Sprintf("Association %q was removed", la.Name),
			})
		case la.TargetTypeName != ca.TargetTypeName:
			report.add(DriftItem{
				Type:        DriftBreaking,
				Category:    CategoryTargetChanged,
				FieldName:   la.Name,
				OldValue:    la.TargetTypeName,
				NewValue:    ca.TargetTypeName,
				Description: fmt.Sprintf("Association %q target changed from %s to %s", la.Name, la.TargetTypeName, ca.TargetTypeName),
			})
		}
	}

	for _, ca := range current {
		if !lockedByName[ca.Name] {
			report.add(DriftItem{
				Type:        DriftAdditive,
				Category:    CategoryAssociationAdded,
				FieldName:   ca.Name,
				NewValue:    ca.TargetTypeName,
				Description: fmt.Sprintf("Association %q to %s was added", ca.Name, ca.TargetTypeName),
			})
		}
	}
}

func (r *TableReport) add(item DriftItem) {
	r.Items = append(r.Items, item)
	switch item.Type {
	case DriftAdditive:
		r.AdditiveCount++
	case DriftBreaking:
		r.BreakingCount++
	}
}

// Diff compares a locked model against the current one. Tables are matched
// by source name; a dropped table is breaking and a new table is additive.
func Diff(locked, current []model.TableModel) Report {
	lockedByName := make(map[string]model.TableModel, len(locked))
	for _, t := range locked {
		lockedByName[t.SourceName] = t
	}
	currentByName := make(map[string]model.TableModel, len(current))
	for _, t := range current {
		currentByName[t.SourceName] = t
	}

	names := make([]string, 0, len(lockedByName)+len(currentByName))
	for name := range lockedByName {
		names = append(names, name)
	}
	for name := range currentByName {
		if _, ok := lockedByName[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	report := Report{TotalTables: len(names)}
	for _, name := range names {
		lt, inLocked := lockedByName[name]
		ct, inCurrent := currentByName[name]

		var tr TableReport
		switch {
		case !inCurrent:
			tr = TableReport{TableName: name}
			tr.add(DriftItem{
				Type:        DriftBreaking,
				Category:    CategoryTableRemoved,
				TableName:   name,
				OldValue:    lt.PascalName,
				Description: fmt.Sprintf("Table %q was removed", name),
			})
			tr.HasDrift, tr.HasBreaking = true, true
		case !inLocked:
			tr = TableReport{TableName: name}
			tr.add(DriftItem{
				Type:        DriftAdditive,
				Category:    CategoryTableAdded,
				TableName:   name,
				NewValue:    ct.PascalName,
				Description: fmt.Sprintf("Table %q was added", name),
			})
			tr.HasDrift = true
		default:
			tr = DiffTable(lt, ct)
		}

		if !tr.HasDrift {
			continue
		}
		report.Tables = append(report.Tables, tr)
		report.DriftedTables++
		report.AdditiveCount += tr.AdditiveCount
		report.BreakingCount += tr.BreakingCount
	}
	return report
}
