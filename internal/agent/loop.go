// Package agent runs the conversational turn loop: send the user's text to
// the model, extract capability invocations from both sides of the
// exchange, dispatch them, and fold the results back into the conversation.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"marvin/internal/capability"
	"marvin/internal/config"
	"marvin/internal/llm"
	"marvin/internal/logging"
	"marvin/internal/prompt"
)

// InvocationResult is the outcome of dispatching one extracted invocation.
type InvocationResult struct {
	ID         string
	Invocation capability.Invocation
	Output     string
	Err        error
}

// Display renders the result for the conversation transcript.
func (r InvocationResult) Display() string {
	label := fmt.Sprintf("%s:%s", r.Invocation.Name, r.Invocation.Action)
	if r.Err != nil {
		return fmt.Sprintf("[%s] %s", label, r.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", label, r.Output)
}

// TurnResult is what one conversational turn produced.
type TurnResult struct {
	// Reply is the model's text with capability markup stripped.
	Reply string
	// Results holds the dispatched invocation outcomes, in batch order.
	Results []InvocationResult
}

// Display renders the full turn for the user.
func (t *TurnResult) Display() string {
	parts := make([]string, 0, len(t.Results)+1)
	if t.Reply != "" {
		parts = append(parts, t.Reply)
	}
	for _, r := range t.Results {
		parts = append(parts, r.Display())
	}
	return strings.Join(parts, "\n")
}

// Agent owns one conversation with the model.
type Agent struct {
	extractor  *capability.Extractor
	dispatcher *capability.Dispatcher
	builder    *prompt.Builder
	client     llm.Client
	conscience Conscience
	cfg        config.AgentConfig
	history    []llm.Message
}

// New creates an Agent. conscience may be nil.
func New(reg *capability.Registry, builder *prompt.Builder, client llm.Client, conscience Conscience, cfg config.AgentConfig) *Agent {
	return &Agent{
		extractor:  capability.NewExtractor(reg),
		dispatcher: capability.NewDispatcher(reg),
		builder:    builder,
		client:     client,
		conscience: conscience,
		cfg:        cfg,
	}
}

// Turn runs one conversational turn.
func (a *Agent) Turn(ctx context.Context, userText string) (*TurnResult, error) {
	a.history = append(a.history, llm.Message{Role: llm.RoleUser, Content: userText})

	system := a.builder.Build(ctx)
	reply, err := a.client.Generate(ctx, system, a.history)
	if err != nil {
		// Pop the failed turn so a retry does not duplicate it.
		a.history = a.history[:len(a.history)-1]
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	a.history = append(a.history, llm.Message{Role: llm.RoleAssistant, Content: reply})

	batch := a.extractor.ExtractAll(userText, reply)
	if max := a.cfg.MaxInvocationsPerTurn; max > 0 && len(batch) > max {
		logging.AgentDebug("Truncating batch from %d to %d invocations", len(batch), max)
		batch = batch[:max]
	}
	if a.conscience != nil {
		batch = a.conscience.Review(ctx, batch)
	}

	results := a.dispatchBatch(ctx, batch)
	a.recordResults(results)

	return &TurnResult{
		Reply:   strings.TrimSpace(a.extractor.StripTags(reply)),
		Results: results,
	}, nil
}

// RunBatch extracts and dispatches invocations from raw text without a
// model call. Used by the one-shot CLI mode.
func (a *Agent) RunBatch(ctx context.Context, text string) []InvocationResult {
	batch := a.extractor.Extract(text)
	if a.conscience != nil {
		batch = a.conscience.Review(ctx, batch)
	}
	return a.dispatchBatch(ctx, batch)
}

func (a *Agent) dispatchBatch(ctx context.Context, batch []capability.ExtractedCapability) []InvocationResult {
	if len(batch) == 0 {
		return nil
	}

	results := make([]InvocationResult, len(batch))
	for i, ec := range batch {
		results[i] = InvocationResult{ID: uuid.NewString(), Invocation: ec.Invocation}
	}

	if a.cfg.ConcurrentDispatch {
		g, gctx := errgroup.WithContext(ctx)
		for i, ec := range batch {
			g.Go(func() error {
				results[i].Output, results[i].Err = a.dispatchOne(gctx, results[i].ID, ec)
				return nil
			})
		}
		_ = g.Wait()
		return results
	}

	for i, ec := range batch {
		results[i].Output, results[i].Err = a.dispatchOne(ctx, results[i].ID, ec)
	}
	return results
}

func (a *Agent) dispatchOne(ctx context.Context, id string, ec capability.ExtractedCapability) (string, error) {
	logging.Agent("Dispatching %s [%s]", ec.Invocation.Tag(), id)
	out, err := a.dispatcher.Dispatch(ctx, ec)
	if err != nil {
		logging.AgentError("Invocation %s failed: %v", id, err)
		return "", err
	}
	return out, nil
}

// recordResults appends invocation outcomes to the history so the model
// sees them on the next turn. Diagnostics go back verbatim, which lets the
// model correct a misspelled capability or a missing parameter.
func (a *Agent) recordResults(results []InvocationResult) {
	if len(results) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString("Capability results:\n")
	for _, r := range results {
		sb.WriteString(r.Display())
		sb.WriteString("\n")
	}
	a.history = append(a.history, llm.Message{Role: llm.RoleUser, Content: strings.TrimRight(sb.String(), "\n")})
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []llm.Message {
	out := make([]llm.Message, len(a.history))
	copy(out, a.history)
	return out
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.history = nil
}
