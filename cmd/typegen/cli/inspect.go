package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/faucetdb/typegen/internal/model"
)

func newInspectCmd() *cobra.Command {
	var (
		in         inputFlags
		jsonOutput bool
		details    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a summary of the type model",
		Long:  "Build the type model from the same inputs as generate and print its tables, fields and associations.",
		Example: `  typegen inspect --schema schema.sql
  typegen inspect --source mydb --details
  typegen inspect --schema schema.sql --json`,
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

			tables, err := resolved.loadModel(cmd.Context(), gen, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tables)
			}
			printSummary(cmd.OutOrStdout(), tables, details)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the model as JSON")
	cmd.Flags().BoolVar(&details, "details", false, "List the fields and associations of every table")

	return cmd
}

func printSummary(out io.Writer, tables []model.TableModel, details bool) {
	if len(tables) == 0 {
		fmt.Fprintln(out, "No tables found.")
		return
	}

	fmt.Fprintf(out, "%-24s %-24s %-8s %-8s %-4s\n", "TYPE", "TABLE", "FIELDS", "ASSOCS", "ID")
	fmt.Fprintf(out, "%-24s %-24s %-8s %-8s %-4s\n", "----", "-----", "------", "------", "--")
	for _, t := range tables {
		id := "no"
		if t.HasIDField {
			id = "yes"
		}
		fmt.Fprintf(out, "%-24s %-24s %-8d %-8d %-4s\n", t.CamelName, t.SourceName, len(t.Fields), len(t.Associations), id)
	}

	if !details {
		return
	}
	for _, t := range tables {
		fmt.Fprintf(out, "\n%s (%s)\n", t.CamelName, t.SourceName)
		for _, f := range t.Fields {
			req := ""
			if f.Required {
				req = " required"
			}
			alias := ""
			if f.AliasSource != nil {
				alias = " <- " + *f.AliasSource
			}
			fmt.Fprintf(out, "  %-24s %-10s %s%s%s\n", f.NormalizedName, f.ScalarType, f.NativeType, req, alias)
		}
		for _, a := range t.Associations {
			fmt.Fprintf(out, "  %-24s -> %s (via %s)\n", a.Name, a.TargetTypeName, a.SourceField)
		}
	}
}
