package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askUsage bool

// NewAskCmd creates the ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask a single question",
		Long: `Send one prompt to the model and print its final answer.

The model may call any number of tools before answering. Tool calls are
logged to stderr; only the answer is written to stdout.

Examples:
  ragcalc ask "Calculate 5 - 2"
  ragcalc ask 'What does "glarb-glarb" mean?'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askUsage, "usage", false, "Print token usage and cost to stderr")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	application, _, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}

	ctx, usage := startUsage(ctx, application.Config, askUsage)
	answer, err := application.Agent.RunTurn(ctx, strings.Join(args, " "))
	reportUsage(cmd, usage)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
