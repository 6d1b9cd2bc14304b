package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// runCmd dispatches capability tags from a text argument without calling
// the model. Useful for scripting and for exercising handlers directly.
var runCmd = &cobra.Command{
	Use:   "run [text]",
	Short: "Extract and dispatch capability tags from text",
	Long: `Parses the given text for capability tags and dispatches every
invocation found, printing each result. The model is not called.

Example:
  marvin run '<capability name="calculator" action="calculate" expression="2+2" />'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		text := strings.Join(args, " ")
		results := a.agent.RunBatch(cmd.Context(), text)
		if len(results) == 0 {
			fmt.Println("No capability invocations found.")
			return nil
		}
		for _, r := range results {
			fmt.Println(r.Display())
		}
		return nil
	},
}
