// Package handlers provides the built-in capabilities and registers them
// against a capability registry at startup.
package handlers

import (
	"fmt"

	"marvin/internal/capability"
	"marvin/internal/logging"
	"marvin/internal/store"
)

// Options configures the built-in capability set.
type Options struct {
	Store       *store.Store
	RecallLimit int
}

// RegisterAll registers every built-in capability against reg. Store-backed
// capabilities (memory, prompt) are skipped when opts.Store is nil.
func RegisterAll(reg *capability.Registry, opts Options) error {
	builtins := []*capability.Capability{
		NewCalculatorCapability(),
		NewWebCapability(nil),
	}
	if opts.Store != nil {
		builtins = append(builtins,
			NewMemoryCapability(opts.Store, opts.RecallLimit),
			NewPromptCapability(opts.Store),
		)
	}

	for _, cap := range builtins {
		if err := reg.Register(cap); err != nil {
			return fmt.Errorf("registering %s: %w", cap.Name, err)
		}
	}

	logging.Boot("Registered %d built-in capabilities", len(builtins))
	return nil
}
