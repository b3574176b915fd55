package contract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faucetdb/typegen/internal/model"
)

func field(name string, scalar model.ScalarType, required bool) model.FieldModel {
	return model.FieldModel{SourceName: name, NormalizedName: name, ScalarType: scalar, Required: required}
}

func users(fields ...model.FieldModel) model.TableModel {
	return model.TableModel{SourceName: "users", PascalName: "User", Fields: fields}
}

func TestDiffTable_NoDrift(t *testing.T) {
	locked := users(
		field("_id", model.ScalarInt, true),
		field("name", model.ScalarString, true),
		field("email", model.ScalarString, false),
	)

	report := DiffTable(locked, locked)

	if report.HasDrift {
		t.Errorf("expected no drift, got %d items", len(report.Items))
	}
	if report.HasBreaking {
		t.Error("expected no breaking changes")
	}
}

func TestDiffTable_Fields(t *testing.T) {
	tests := []struct {
		name     string
		locked   model.TableModel
		current  model.TableModel
		want     DriftItem
		breaking bool
	}{
		{
			name:    "field added",
			locked:  users(field("_id", model.ScalarInt, true)),
			current: users(field("_id", model.ScalarInt, true), field("bio", model.ScalarString, false)),
			want: DriftItem{
				Type: DriftAdditive, Category: CategoryFieldAdded, TableName: "users",
				FieldName: "bio", NewValue: "String",
				Description: `Field "bio" was added to "users"`,
			},
		},
		{
			name:    "field removed",
			locked:  users(field("_id", model.ScalarInt, true), field("bio", model.ScalarString, false)),
			current: users(field("_id", model.ScalarInt, true)),
			want: DriftItem{
				Type: DriftBreaking, Category: CategoryFieldRemoved, TableName: "users",
				FieldName: "bio", OldValue: "String",
				Description: `Field "bio" was removed from "users"`,
			},
			breaking: true,
		},
		{
			name:    "type changed",
			locked:  users(field("total", model.ScalarFloat, true)),
			current: users(field("total", model.ScalarInt, true)),
			want: DriftItem{
				Type: DriftBreaking, Category: CategoryTypeChanged, TableName: "users",
				FieldName: "total", OldValue: "Float", NewValue: "Int",
				Description: "Field \"total\" type changed from Float to Int",
			},
			breaking: true,
		},
		{
			name:    "required to optional",
			locked:  users(field("bio", model.ScalarString, true)),
			current: users(field("bio", model.ScalarString, false)),
			want: DriftItem{
				Type: DriftBreaking, Category: CategoryRequiredChanged, TableName: "users",
				FieldName: "bio", OldValue: "required", NewValue: "optional",
				Description: `Field "bio" is no longer required`,
			},
			breaking: true,
		},
		{
			name:    "optional to required",
			locked:  users(field("bio", model.ScalarString, false)),
			current: users(field("bio", model.ScalarString, true)),
			want: DriftItem{
				Type: DriftAdditive, Category: CategoryRequiredChanged, TableName: "users",
				FieldName: "bio", OldValue: "optional", NewValue: "required",
				Description: `Field "bio" is now required`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := DiffTable(tt.locked, tt.current)
			if diff := cmp.Diff([]DriftItem{tt.want}, report.Items); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			if report.HasBreaking != tt.breaking {
				t.Errorf("HasBreaking = %v, want %v", report.HasBreaking, tt.breaking)
			}
		})
	}
}

func TestDiffTable_Associations(t *testing.T) {
	locked := model.TableModel{
		SourceName: "posts",
		Associations: []model.AssociationModel{
			{Name: "author", TargetTypeName: "Author", SourceField: "author_id", Kind: model.RelationInferred},
			{Name: "user", TargetTypeName: "User", SourceField: "user_id", Kind: model.RelationInferred},
		},
	}
	current := model.TableModel{
		SourceName: "posts",
		Associations: []model.AssociationModel{
			{Name: "author", TargetTypeName: "Person", SourceField: "author_id", Kind: model.RelationInferred},
			{Name: "category", TargetTypeName: "Category", SourceField: "category_id", Kind: model.RelationInferred},
		},
	}

	report := DiffTable(locked, current)

	var got []string
	for _, item := range report.Items {
		got = append(got, item.Category+":"+item.FieldName)
	}
	want := []string{"target_changed:author", "association_removed:user", "association_added:category"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if report.BreakingCount != 2 || report.AdditiveCount != 1 {
		t.Errorf("breaking=%d additive=%d, want 2 and 1", report.BreakingCount, report.AdditiveCount)
	}
}

func TestDiff(t *testing.T) {
	locked := []model.TableModel{
		{SourceName: "orders", PascalName: "Order"},
		users(field("_id", model.ScalarInt, true)),
	}
	current := []model.TableModel{
		{SourceName: "accounts", PascalName: "Account"},
		users(field("_id", model.ScalarInt, true), field("email", model.ScalarString, false)),
	}

	report := Diff(locked, current)

	if report.TotalTables != 3 {
		t.Errorf("TotalTables = %d, want 3", report.TotalTables)
	}
	if report.DriftedTables != 3 {
		t.Errorf("DriftedTables = %d, want 3", report.DriftedTables)
	}
	if !report.HasBreaking() || report.BreakingCount != 1 {
		t.Errorf("BreakingCount = %d, want 1", report.BreakingCount)
	}
	if report.AdditiveCount != 2 {
		t.Errorf("AdditiveCount = %d, want 2", report.AdditiveCount)
	}

	var order []string
	for _, tr := range report.Tables {
		order = append(order, tr.TableName+":"+tr.Items[0].Category)
	}
	want := []string{"accounts:table_added", "orders:table_removed", "users:field_added"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_Unchanged(t *testing.T) {
	tables := []model.TableModel{users(field("_id", model.ScalarInt, true))}

	report := Diff(tables, tables)

	if report.DriftedTables != 0 || len(report.Tables) != 0 {
		t.Errorf("expected no drifted tables, got %+v", report)
	}
	if report.TotalTables != 1 {
		t.Errorf("TotalTables = %d, want 1", report.TotalTables)
	}
}
