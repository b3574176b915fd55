package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/faucetdb/typegen/internal/contract"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/service"
)

// errBreaking is returned by diff --fail-on-breaking.
var errBreaking = errors.New("breaking changes found")

func newDiffCmd() *cobra.Command {
	var (
		in             inputFlags
		jsonOutput     bool
		failOnBreaking bool
	)

	cmd := &cobra.Command{
		Use:   "diff <locked>",
		Short: "Compare a locked model against the current schema",
		Long: `Compare a locked type model against the current one and classify every
difference as additive or breaking. The locked model is either a model.json
written by 'typegen generate -f json' or a DDL file. The current model comes
from the same inputs as generate.`,
		Example: `  typegen generate --source app -f json --root-only -o ./contract
  typegen diff ./contract/model.json --source app --fail-on-breaking
  typegen diff old.sql --schema new.sql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Logging, cmd.ErrOrStderr())

			resolved := in.resolve(cfg.Source)
			gen, cleanup, err := newGenerator(logger, resolved.needsStore())
			if err != nil {
				return err
			}
			defer cleanup()

			locked, err := loadLocked(cmd, gen, args[0])
			if err != nil {
				return err
			}
			current, err := resolved.loadModel(cmd.Context(), gen, cmd.InOrStdin())
			if err != nil {
				return err
			}

			report := contract.Diff(locked, current)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printDriftReport(cmd.OutOrStdout(), args[0], report)
			}

			if failOnBreaking && report.HasBreaking() {
				return errBreaking
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&failOnBreaking, "fail-on-breaking", false, "Exit non-zero when a breaking change is found")

	return cmd
}

// loadLocked reads a model.json snapshot, or builds the model of a DDL file.
func loadLocked(cmd *cobra.Command, gen *service.Generator, path string) ([]model.TableModel, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		ddl, err := readSchema(path, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return gen.ModelFromDDL(cmd.Context(), ddl)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read locked model: %w", err)
	}
	var tables []model.TableModel
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse locked model %s: %w", path, err)
	}
	return tables, nil
}

func printDriftReport(out io.Writer, locked string, r contract.Report) {
	fmt.Fprintf(out, "Model Drift Report: %s\n", locked)
	fmt.Fprintf(out, "  %d tables compared, %d with drift, %d breaking changes\n\n", r.TotalTables, r.DriftedTables, r.BreakingCount)

	for _, t := range r.Tables {
		status := "DRIFT"
		if t.HasBreaking {
			status = "BREAKING"
		}
		fmt.Fprintf(out, "  %s: %s (%d additive, %d breaking)\n", t.TableName, status, t.AdditiveCount, t.BreakingCount)
		for _, item := range t.Items {
			marker := "+"
			if item.Type == contract.DriftBreaking {
				marker = "!"
			}
			fmt.Fprintf(out, "    %s %s\n", marker, item.Description)
		}
	}

	if r.DriftedTables == 0 {
		fmt.Fprintln(out, "  All tables match the locked model.")
	}
}
