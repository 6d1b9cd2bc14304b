package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marvin/internal/capability"
	"marvin/internal/prompt"
	"marvin/internal/store"
)

// NewPromptCapability builds the capability that reads and rewrites the
// agent's stored system prompt.
func NewPromptCapability(st *store.Store) *capability.Capability {
	return &capability.Capability{
		Name:             "prompt",
		SupportedActions: []string{"get", "set"},
		Description:      "Reads or replaces the agent's system prompt.",
		Examples: map[string]string{
			"get": `<capability name="prompt" action="get" />`,
			"set": `<capability name="prompt" action="set">You are a pirate.</capability>`,
		},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			name := params["name"]
			if name == "" {
				name = prompt.SystemPromptName
			}

			switch params["action"] {
			case "get":
				text, err := st.ActivePrompt(ctx, name)
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Sprintf("No stored prompt named %q; the built-in default is in use.", name), nil
				}
				if err != nil {
					return "", fmt.Errorf("reading prompt: %w", err)
				}
				return text, nil

			case "set":
				if content == "" {
					return "", fmt.Errorf("prompt set requires content")
				}
				if err := st.SetPrompt(ctx, name, content); err != nil {
					return "", fmt.Errorf("storing prompt: %w", err)
				}
				return fmt.Sprintf("Updated prompt %q.", name), nil

			default:
				return "", fmt.Errorf("prompt: unhandled action %q", params["action"])
			}
		},
	}
}
