package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	lookupTop  int
	lookupJSON bool
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <query>",
		Short: "Query the semantic index directly",
		Long: `Rank the corpus against a query by cosine similarity, without the model.

Embeddings are still computed by the configured provider.

Examples:
  ragcalc lookup flurbo
  ragcalc lookup --top 3 "ancient farming tool"
  ragcalc lookup --json glarb-glarb`,
		Args: cobra.ExactArgs(1),
		RunE: runLookup,
	}

	cmd.Flags().IntVarP(&lookupTop, "top", "n", 1, "Number of matches to return")
	cmd.Flags().BoolVar(&lookupJSON, "json", false, "Print the payload of each match as JSON")

	return cmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	if lookupTop <= 0 {
		return fmt.Errorf("top must be positive, got %d", lookupTop)
	}
	ctx := cmd.Context()

	application, _, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}

	matches, err := application.Index.TopN(ctx, args[0], lookupTop)
	if err != nil {
		return fmt.Errorf("querying index: %w", err)
	}

	out := cmd.OutOrStdout()
	if lookupJSON {
		payloads := make([]json.RawMessage, len(matches))
		for i, m := range matches {
			payloads[i] = m.Payload
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payloads)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORD\tSIMILARITY")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", m.ID, m.Label, m.Similarity)
	}
	return w.Flush()
}
