package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// demoQueries exercise subtraction, a mixed expression, a lookup and a
// word problem that needs both lookup and arithmetic.
var demoQueries = []string{
	"Calculate 5 - 2 = ?. Describe the result to me.",
	"Calculate (2 + 3) / 10  = ?. Describe the result to me.",
	`What does "glarb-glarb" mean?`,
	"Somebody gave me two flurbos yesterday, and i already had 12 before that, but then, I had to give 10% of it to the government this afternoon, how many flurbos do i have left? And how many USD would I have if I converted what I have right now?",
}

var (
	demoKeepHistory bool
	demoUsage       bool
)

// NewDemoCmd creates the demo command.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in demo queries",
		Long: `Run four sample queries in order and print each query with its answer.

The history is cleared between queries unless --keep-history is set.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}

	cmd.Flags().BoolVar(&demoKeepHistory, "keep-history", false, "Share one conversation across all queries")
	cmd.Flags().BoolVar(&demoUsage, "usage", false, "Print token usage and cost of all queries to stderr")

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	application, _, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}

	ctx, usage := startUsage(ctx, application.Config, demoUsage)
	defer reportUsage(cmd, usage)

	out := cmd.OutOrStdout()
	for i, query := range demoQueries {
		if i > 0 {
			fmt.Fprintln(out)
			if !demoKeepHistory {
				application.Agent.ClearHistory(ctx)
			}
		}

		fmt.Fprintf(out, "Query: %s\n", query)
		answer, err := application.Agent.RunTurn(ctx, query)
		if err != nil {
			return fmt.Errorf("query %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "Response: %s\n", answer)
	}
	return nil
}
