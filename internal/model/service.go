package model

import "time"

// SourceConfig is a stored catalog source: a named database whose
// information schema can be read to build a type model.
type SourceConfig struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Label          string    `json:"label" db:"label"`
	Driver         string    `json:"driver" db:"driver"` // postgres, mysql, mssql, snowflake, sqlite, oracle
	DSN            string    `json:"dsn,omitempty" db:"dsn"`
	PrivateKeyPath string    `json:"private_key_path,omitempty" db:"private_key_path"`
	Schema         string    `json:"schema" db:"schema_name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Redacted returns a copy of the source without its DSN, suitable for
// listing over the network.
func (s SourceConfig) Redacted() SourceConfig {
	s.DSN = ""
	return s
}
