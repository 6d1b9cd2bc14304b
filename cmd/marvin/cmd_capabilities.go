package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// capabilitiesCmd lists the registered capabilities.
var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List registered capabilities and their actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		for _, cap := range a.registry.List() {
			fmt.Printf("%s  [%s]\n", cap.Name, strings.Join(cap.SupportedActions, ", "))
			if cap.Description != "" {
				fmt.Printf("    %s\n", cap.Description)
			}
			if len(cap.RequiredParams) > 0 {
				fmt.Printf("    requires: %s\n", strings.Join(cap.RequiredParams, ", "))
			}
		}
		return nil
	},
}
