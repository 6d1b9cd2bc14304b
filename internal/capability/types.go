// Package capability implements the capability invocation pipeline: it
// extracts capability tags from raw model or user text, normalizes them into
// a canonical invocation shape, validates them against a registry of known
// capabilities, and dispatches them to the registered handler.
//
// Architecture:
//
//	raw text → Extractor → []ExtractedCapability → Dispatcher.Execute() → result
package capability

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// HandlerFunc is the signature every capability handler implements.
// params is a flat attribute map (always including an "action" key at call
// time), content is the free text captured between tags (may be empty).
// The returned string must be displayable text.
type HandlerFunc func(ctx context.Context, params map[string]string, content string) (string, error)

// Capability describes a named family of actions the agent can invoke.
// Capabilities are registered once at bootstrap and looked up by name on
// every dispatch.
type Capability struct {
	// Name is the unique identifier used in tags (e.g. "memory").
	Name string

	// SupportedActions lists the verbs this capability accepts.
	// Must be non-empty.
	SupportedActions []string

	// RequiredParams lists parameter names that must be present, either as
	// a tag attribute or as tag content, before the handler is invoked.
	RequiredParams []string

	// Handler executes one invocation.
	Handler HandlerFunc

	// Description is shown to the model in generated usage instructions.
	Description string

	// Examples maps an action to a terse example tag, used both in usage
	// instructions and in missing-parameter diagnostics.
	Examples map[string]string
}

// SupportsAction reports whether action is one of the capability's verbs.
func (c *Capability) SupportsAction(action string) bool {
	for _, a := range c.SupportedActions {
		if a == action {
			return true
		}
	}
	return false
}

// Validate checks the capability descriptor and returns every problem found.
// An empty slice means the descriptor is registrable.
func (c *Capability) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name cannot be empty"})
	}
	if len(c.SupportedActions) == 0 {
		errs = append(errs, ValidationError{Field: "supported_actions", Message: "at least one action is required"})
	}
	for i, a := range c.SupportedActions {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, ValidationError{Field: "supported_actions", Message: fmt.Sprintf("action %d is empty", i)})
		}
	}
	for i, p := range c.RequiredParams {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, ValidationError{Field: "required_params", Message: fmt.Sprintf("required param %d is empty", i)})
		}
	}
	if c.Handler == nil {
		errs = append(errs, ValidationError{Field: "handler", Message: "handler cannot be nil"})
	}
	for action := range c.Examples {
		if !c.SupportsAction(action) {
			errs = append(errs, ValidationError{Field: "examples", Message: fmt.Sprintf("example for unsupported action %q", action)})
		}
	}
	return errs
}

// Invocation is one candidate capability call extracted from text, before
// registry validation. Records missing Name or Action never leave the
// extractor; malformed fragments are ordinary model noise and are dropped
// silently.
type Invocation struct {
	// Name is the capability name from the tag.
	Name string

	// Action is the verb from the tag.
	Action string

	// Params holds the remaining tag attributes. Insertion order is
	// irrelevant; keys are unique.
	Params map[string]string

	// Content is the free text between opening and closing tags, or empty
	// for self-closing tags.
	Content string
}

// Tag renders the invocation back to canonical attribute form. Params are
// emitted in sorted order so the output is stable; re-extracting the result
// yields the same invocation.
func (inv Invocation) Tag() string {
	var b strings.Builder
	b.WriteString(`<capability name="`)
	b.WriteString(inv.Name)
	b.WriteString(`" action="`)
	b.WriteString(inv.Action)
	b.WriteString(`"`)

	keys := make([]string, 0, len(inv.Params))
	for k := range inv.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := inv.Params[k]
		// Values carrying double quotes (the data payload) switch to
		// single-quoted attributes, matching what the scanner accepts.
		if strings.Contains(v, `"`) {
			fmt.Fprintf(&b, " %s='%s'", k, v)
		} else {
			fmt.Fprintf(&b, " %s=%q", k, v)
		}
	}

	if inv.Content == "" {
		b.WriteString(" />")
		return b.String()
	}
	b.WriteString(">")
	b.WriteString(inv.Content)
	b.WriteString("</capability>")
	return b.String()
}

// ExtractedCapability is an Invocation annotated with its ordinal position
// among every invocation found in one extraction pass. Priority preserves
// left-to-right execution order when a single block of text yields several
// invocations.
type ExtractedCapability struct {
	Invocation

	// Priority is the zero-based position of this invocation in the pass.
	// Lower runs first.
	Priority int
}

// ValidationError describes one problem with a capability descriptor at
// registration time.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every descriptor problem from one Register
// call so the caller can fix them all at once.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid capability: " + strings.Join(msgs, "; ")
}
