// Package pipeline runs the schema-to-model transformation end to end.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/faucetdb/typegen/internal/build"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/scalar"
	"github.com/faucetdb/typegen/internal/schema"
)

// Run extracts raw tables from ext and assembles the table model. An
// extractor failure aborts the run and no partial model is returned. An
// empty schema is not an error: the result is an empty slice.
func Run(ctx context.Context, ext schema.Extractor, logger *slog.Logger) ([]model.TableModel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	raw, err := ext.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract schema: %w", err)
	}

	tables := build.Assemble(raw)
	if len(tables) == 0 {
		logger.Warn("schema contains no tables")
		return tables, nil
	}

	fields, assocs := 0, 0
	for _, t := range tables {
		fields += len(t.Fields)
		assocs += len(t.Associations)
	}
	if unmapped := UnmappedTypes(tables); len(unmapped) > 0 {
		logger.Debug("native types fell back to String", "types", unmapped)
	}
	logger.Debug("schema assembled",
		"tables", len(tables),
		"fields", fields,
		"associations", assocs,
		"duration", time.Since(start),
	)
	return tables, nil
}

// UnmappedTypes lists, in first-seen order, the native types in tables that
// have no explicit scalar mapping.
func UnmappedTypes(tables []model.TableModel) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tables {
		for _, f := range t.Fields {
			if scalar.Known(f.NativeType) || seen[f.NativeType] {
				continue
			}
			seen[f.NativeType] = true
			out = append(out, f.NativeType)
		}
	}
	return out
}
