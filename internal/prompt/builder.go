package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"marvin/internal/capability"
	"marvin/internal/logging"
	"marvin/internal/store"
)

// SystemPromptName is the prompts-table row holding the agent persona.
const SystemPromptName = "PROMPT_SYSTEM"

// DefaultSystemPrompt is used when the store has no active system prompt.
const DefaultSystemPrompt = `You are Marvin, a helpful conversational assistant.
You can take actions on the user's behalf by emitting capability tags in your
replies. Use them whenever an action would help; otherwise just answer.`

// Builder assembles the system prompt sent with every model call: the
// persona text plus a capability manual rendered from the registry.
type Builder struct {
	registry *capability.Registry
	store    *store.Store
}

// NewBuilder creates a Builder. store may be nil, in which case the
// default persona is always used.
func NewBuilder(registry *capability.Registry, st *store.Store) *Builder {
	return &Builder{registry: registry, store: st}
}

// Build returns the complete system prompt.
func (b *Builder) Build(ctx context.Context) string {
	persona := DefaultSystemPrompt
	if b.store != nil {
		stored, err := b.store.ActivePrompt(ctx, SystemPromptName)
		if err == nil && stored != "" {
			persona = stored
		} else if err != nil {
			logging.AgentDebug("No stored system prompt, using default: %v", err)
		}
	}

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.CapabilityManual())
	return sb.String()
}

// CapabilityManual renders usage instructions for every registered
// capability.
func (b *Builder) CapabilityManual() string {
	caps := b.registry.List()
	if len(caps) == 0 {
		return "No capabilities are currently available."
	}

	var sb strings.Builder
	sb.WriteString("## Available Capabilities\n\n")
	sb.WriteString("To invoke a capability, emit a tag in your reply:\n")
	sb.WriteString("  <capability name=\"NAME\" action=\"ACTION\" param=\"value\" />\n")
	sb.WriteString("or with body content:\n")
	sb.WriteString("  <capability name=\"NAME\" action=\"ACTION\">content</capability>\n\n")

	for _, cap := range caps {
		sb.WriteString(fmt.Sprintf("### %s\n", cap.Name))
		if cap.Description != "" {
			sb.WriteString(cap.Description)
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("Actions: %s\n", strings.Join(cap.SupportedActions, ", ")))
		if len(cap.RequiredParams) > 0 {
			sb.WriteString(fmt.Sprintf("Required parameters: %s\n", strings.Join(cap.RequiredParams, ", ")))
		}
		if len(cap.Examples) > 0 {
			actions := make([]string, 0, len(cap.Examples))
			for action := range cap.Examples {
				actions = append(actions, action)
			}
			sort.Strings(actions)
			for _, action := range actions {
				sb.WriteString(fmt.Sprintf("Example (%s): %s\n", action, cap.Examples[action]))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Invocation results are fed back to you before your final reply.\n")
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
