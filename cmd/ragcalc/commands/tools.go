package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leofalp/ragcalc/internal/app"
)

var toolsJSON bool

// NewToolsCmd creates the tools command.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered to the model",
		Long: `List every registered tool with its description, in the order the model
sees them. With --json the full wire descriptions, parameter schemas
included, are printed instead.`,
		Args: cobra.NoArgs,
		RunE: runTools,
	}

	cmd.Flags().BoolVar(&toolsJSON, "json", false, "Print tool descriptions as JSON")

	return cmd
}

func runTools(cmd *cobra.Command, args []string) error {
	catalog, err := app.NewCatalog(nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if toolsJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(catalog.Descriptions())
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, description := range catalog.Descriptions() {
		fmt.Fprintf(w, "%s\t%s\n", description.Name, description.Description)
	}
	return w.Flush()
}
