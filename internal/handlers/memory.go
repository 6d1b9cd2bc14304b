package handlers

import (
	"context"
	"fmt"
	"strings"

	"marvin/internal/capability"
	"marvin/internal/logging"
	"marvin/internal/store"
)

const defaultUserID = "default"

// NewMemoryCapability builds the sqlite-backed memory capability.
// recallLimit caps the number of memories returned per recall; <=0 uses
// the store default.
func NewMemoryCapability(st *store.Store, recallLimit int) *capability.Capability {
	return &capability.Capability{
		Name:             "memory",
		SupportedActions: []string{"remember", "recall", "forget"},
		RequiredParams:   []string{"query"},
		Description:      "Stores facts about the user and recalls them later.",
		Examples: map[string]string{
			"remember": `<capability name="memory" action="remember">User prefers dark roast coffee</capability>`,
			"recall":   `<capability name="memory" action="recall" query="coffee" />`,
			"forget":   `<capability name="memory" action="forget" query="coffee" />`,
		},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			userID := params["user_id"]
			if userID == "" {
				userID = defaultUserID
			}
			query := params["query"]
			if query == "" {
				query = content
			}

			switch params["action"] {
			case "remember":
				text := content
				if text == "" {
					text = query
				}
				id, err := st.Remember(ctx, userID, text)
				if err != nil {
					return "", fmt.Errorf("remember failed: %w", err)
				}
				logging.Store("Remembered memory %d for %s", id, userID)
				return fmt.Sprintf("Remembered: %s", text), nil

			case "recall":
				memories, err := st.Recall(ctx, userID, query, recallLimit)
				if err != nil {
					return "", fmt.Errorf("recall failed: %w", err)
				}
				if len(memories) == 0 {
					return fmt.Sprintf("No memories found for %q.", query), nil
				}
				var sb strings.Builder
				fmt.Fprintf(&sb, "Found %d memories:\n", len(memories))
				for _, m := range memories {
					fmt.Fprintf(&sb, "- %s\n", m.Content)
				}
				return strings.TrimRight(sb.String(), "\n"), nil

			case "forget":
				count, err := st.Forget(ctx, userID, query)
				if err != nil {
					return "", fmt.Errorf("forget failed: %w", err)
				}
				return fmt.Sprintf("Forgot %d memories matching %q.", count, query), nil

			default:
				return "", fmt.Errorf("memory: unhandled action %q", params["action"])
			}
		},
	}
}
