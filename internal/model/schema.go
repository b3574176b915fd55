package model

// ScalarType is a tag from the closed scalar vocabulary that every native
// column type is mapped onto.
type ScalarType string

const (
	ScalarInt     ScalarType = "Int"
	ScalarBoolean ScalarType = "Boolean"
	ScalarString  ScalarType = "String"
	ScalarFloat   ScalarType = "Float"
)

// ReservedIDName is the normalized name given to a column literally named
// "id". It keeps the identity column apart from generated identity accessors
// and from any association derived from a "*_id" column.
const ReservedIDName = "_id"

// RelationKind tells consumers how an association was obtained.
type RelationKind string

// RelationInferred marks an association guessed from a column naming
// convention. It carries no referential-integrity guarantee.
const RelationInferred RelationKind = "inferred"

// TableModel describes one relational table after the pipeline has run.
// SourceName is unique within a run; every other name is derived from it.
type TableModel struct {
	SourceName   string             `json:"source_name"`
	SingularName string             `json:"singular_name"`
	CamelName    string             `json:"camel_name"`
	PascalName   string             `json:"pascal_name"`
	HasIDField   bool               `json:"has_id_field"`
	Fields       []FieldModel       `json:"fields"`
	Associations []AssociationModel `json:"associations"`
}

// FieldModel describes one column.
type FieldModel struct {
	SourceName     string     `json:"source_name"`
	NormalizedName string     `json:"normalized_name"`
	NativeType     string     `json:"native_type"`
	ScalarType     ScalarType `json:"scalar_type"`
	Required       bool       `json:"required"`
	// AliasSource holds the storage column name when it differs from
	// NormalizedName, nil otherwise.
	AliasSource *string `json:"alias_source"`
}

// Alias returns the storage column name the renderer must map the field back
// to, or "" when the field name already matches the column.
func (f FieldModel) Alias() string {
	if f.AliasSource == nil {
		return ""
	}
	return *f.AliasSource
}

// AssociationModel is a belongs-to relation derived from a "*_id" column.
type AssociationModel struct {
	Name           string       `json:"name"`
	TargetTypeName string       `json:"target_type_name"`
	SourceField    string       `json:"source_field"`
	Kind           RelationKind `json:"kind"`
}
