package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marvin/internal/prompt"
)

var promptName string

// promptCmd manages the stored system prompt.
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Inspect or replace the agent's system prompt",
}

var promptGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active system prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		text, err := a.store.ActivePrompt(cmd.Context(), promptName)
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Printf("No stored prompt %q; built-in default:\n\n%s\n", promptName, prompt.DefaultSystemPrompt)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var promptSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Replace the active system prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		text := strings.Join(args, " ")
		if err := a.store.SetPrompt(cmd.Context(), promptName, text); err != nil {
			return err
		}
		fmt.Printf("Updated prompt %q (%d bytes).\n", promptName, len(text))
		return nil
	},
}

func init() {
	promptCmd.PersistentFlags().StringVar(&promptName, "name", prompt.SystemPromptName, "Prompt slot to operate on")
	promptCmd.AddCommand(promptGetCmd)
	promptCmd.AddCommand(promptSetCmd)
}
