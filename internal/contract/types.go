// Package contract compares two type models and classifies every
// difference as additive or breaking for clients generated from the older
// one.
package contract

// DriftType classifies the severity of a model change.
type DriftType string

const (
	// DriftAdditive means something was added or loosened. Existing clients keep working.
	DriftAdditive DriftType = "additive"
	// DriftBreaking means a type, field or association was removed or changed.
	DriftBreaking DriftType = "breaking"
)

// Categories of DriftItem.
const (
	CategoryTableAdded         = "table_added"
	CategoryTableRemoved       = "table_removed"
	CategoryFieldAdded         = "field_added"
	CategoryFieldRemoved       = "field_removed"
	CategoryTypeChanged        = "type_changed"
	CategoryRequiredChanged    = "required_changed"
	CategoryAssociationAdded   = "association_added"
	CategoryAssociationRemoved = "association_removed"
	CategoryTargetChanged      = "target_changed"
)

// DriftItem describes a single difference between the locked and current models.
type DriftItem struct {
	Type        DriftType `json:"type"`
	Category    string    `json:"category"`
	TableName   string    `json:"table_name"`
	FieldName   string    `json:"field_name,omitempty"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Description string    `json:"description"`
}

// TableReport summarizes the differences of one table.
type TableReport struct {
	TableName     string      `json:"table_name"`
	HasDrift      bool        `json:"has_drift"`
	HasBreaking   bool        `json:"has_breaking"`
	AdditiveCount int         `json:"additive_count"`
	BreakingCount int         `json:"breaking_count"`
	Items         []DriftItem `json:"items"`
}

// Report summarizes drift across every table of both models. Tables are in
// source-name order.
type Report struct {
	TotalTables   int           `json:"total_tables"`
	DriftedTables int           `json:"drifted_tables"`
	AdditiveCount int           `json:"additive_count"`
	BreakingCount int           `json:"breaking_count"`
	Tables        []TableReport `json:"tables"`
}

// HasBreaking reports whether any table has a breaking change.
func (r Report) HasBreaking() bool { return r.BreakingCount > 0 }
