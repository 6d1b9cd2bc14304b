package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marvin/internal/logging"
)

// Diagnostic thresholds for "did you mean" suggestions.
const (
	nameSuggestionThreshold   = 0.5
	actionSuggestionThreshold = 0.4
	maxSuggestions            = 2
)

// actionAliases maps common wrong verbs to the action most models meant.
// Checked exactly, before any fuzzy search; a hit short-circuits with a
// single best match.
var actionAliases = map[string]string{
	"write":    "write_file",
	"read":     "read_file",
	"search":   "recall",
	"save":     "remember",
	"store":    "remember",
	"get":      "recall",
	"delete":   "forget",
	"remove":   "forget",
	"calc":     "calculate",
	"eval":     "calculate",
	"download": "fetch",
}

// Dispatcher turns a normalized invocation into an executed result or an
// explanatory failure. Every dispatch-layer error message is written to be
// shown back to the model so it can self-correct on its next turn.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher backed by the given registry.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Execute validates (name, action, params, content) against the registry
// and invokes the matching handler. The handler receives a params copy with
// the action merged in, plus the effective content. Handler results and
// handler errors propagate verbatim; retries and recovery belong to the
// handler, not here.
func (d *Dispatcher) Execute(ctx context.Context, name, action string, params map[string]string, content string) (string, error) {
	cap := d.registry.Lookup(name)
	if cap == nil {
		return "", d.unknownCapability(name, action)
	}
	if !cap.SupportsAction(action) {
		return "", d.unknownAction(cap, action)
	}

	effective := EffectiveContent(params, content)
	if missing := findMissingParams(cap, params, effective); len(missing) > 0 {
		return "", d.missingParams(cap, action, missing)
	}

	callParams := make(map[string]string, len(params)+1)
	for k, v := range params {
		callParams[k] = v
	}
	callParams["action"] = action

	start := time.Now()
	logging.DispatchDebug("Executing %s:%s", name, action)
	result, err := cap.Handler(ctx, callParams, effective)
	logging.DispatchDebug("%s:%s completed in %v (success=%v)", name, action, time.Since(start), err == nil)
	return result, err
}

// Dispatch runs one extracted invocation. Convenience wrapper used by the
// agent loop.
func (d *Dispatcher) Dispatch(ctx context.Context, ec ExtractedCapability) (string, error) {
	return d.Execute(ctx, ec.Name, ec.Action, ec.Params, ec.Content)
}

// unknownCapability builds the capability-not-found diagnostic: the
// attempted name, up to two fuzzy suggestions, and the full list of
// registered names.
func (d *Dispatcher) unknownCapability(name, action string) error {
	names := d.registry.Names()
	msg := fmt.Sprintf("capability %q not found (attempted action %q).", name, action)

	if hints := topSuggestions(name, names, nameSuggestionThreshold, maxSuggestions); len(hints) > 0 {
		msg += fmt.Sprintf(" Did you mean %q?", strings.Join(hints, `" or "`))
	}
	if len(names) > 0 {
		msg += fmt.Sprintf(" Registered capabilities: %s.", strings.Join(names, ", "))
	}

	logging.DispatchWarn("Unknown capability: %s", name)
	return fmt.Errorf("%w: %s", ErrCapabilityNotFound, msg)
}

// unknownAction builds the unsupported-action diagnostic. The exact alias
// table is consulted first; only when it misses does the fuzzy search over
// the capability's own actions run.
func (d *Dispatcher) unknownAction(cap *Capability, action string) error {
	msg := fmt.Sprintf("capability %q does not support action %q.", cap.Name, action)

	if alias, ok := actionAliases[action]; ok && cap.SupportsAction(alias) {
		msg += fmt.Sprintf(" Did you mean %q?", alias)
	} else if hints := topSuggestions(action, cap.SupportedActions, actionSuggestionThreshold, maxSuggestions); len(hints) > 0 {
		msg += fmt.Sprintf(" Did you mean %q?", strings.Join(hints, `" or "`))
	}
	msg += fmt.Sprintf(" Supported actions: %s.", strings.Join(cap.SupportedActions, ", "))

	logging.DispatchWarn("Unsupported action %s on capability %s", action, cap.Name)
	return fmt.Errorf("%w: %s", ErrActionNotSupported, msg)
}

// missingParams builds the missing-required-parameter diagnostic, naming
// each absent parameter and quoting the registered example for the action
// when one exists.
func (d *Dispatcher) missingParams(cap *Capability, action string, missing []string) error {
	msg := fmt.Sprintf("capability %q action %q is missing required parameter(s): %s.",
		cap.Name, action, strings.Join(missing, ", "))
	if example, ok := cap.Examples[action]; ok {
		msg += fmt.Sprintf(" Example: %s", example)
	}

	logging.DispatchWarn("Missing params for %s:%s: %v", cap.Name, action, missing)
	return fmt.Errorf("%w: %s", ErrMissingRequiredParam, msg)
}

// findMissingParams returns the declared required parameters absent from
// both params and the effective content.
func findMissingParams(cap *Capability, params map[string]string, content string) []string {
	if len(cap.RequiredParams) == 0 {
		return nil
	}
	if content != "" {
		// Free text can stand in for any single required parameter.
		return nil
	}
	var missing []string
	for _, p := range cap.RequiredParams {
		if v, ok := params[p]; !ok || v == "" {
			missing = append(missing, p)
		}
	}
	return missing
}
