package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func dispatcherFixture(t *testing.T) (*Registry, *Dispatcher) {
	t.Helper()
	reg := NewRegistry()
	reg.MustRegister(&Capability{
		Name:             "memory",
		SupportedActions: []string{"remember", "recall", "forget"},
		RequiredParams:   []string{"query"},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			return fmt.Sprintf("action=%s query=%s content=%s", params["action"], params["query"], content), nil
		},
		Examples: map[string]string{
			"recall": `<capability name="memory" action="recall" query="pizza" />`,
		},
	})
	reg.MustRegister(&Capability{
		Name:             "files",
		SupportedActions: []string{"read_file", "write_file"},
		Handler:          noopHandler,
	})
	return reg, NewDispatcher(reg)
}

func TestExecuteSuccess(t *testing.T) {
	_, d := dispatcherFixture(t)

	got, err := d.Execute(context.Background(), "memory", "recall",
		map[string]string{"query": "pizza"}, "")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got != "action=recall query=pizza content=pizza" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestExecuteUnknownCapabilitySuggests(t *testing.T) {
	_, d := dispatcherFixture(t)

	_, err := d.Execute(context.Background(), "memroy", "recall", nil, "")
	if !errors.Is(err, ErrCapabilityNotFound) {
		t.Fatalf("expected ErrCapabilityNotFound, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "memroy") {
		t.Errorf("diagnostic should name the attempted capability: %s", msg)
	}
	if !strings.Contains(msg, `"memory"`) {
		t.Errorf("diagnostic should suggest memory: %s", msg)
	}
	if !strings.Contains(msg, "files") {
		t.Errorf("diagnostic should list registered capabilities: %s", msg)
	}
}

func TestExecuteUnsupportedActionSuggests(t *testing.T) {
	_, d := dispatcherFixture(t)

	_, err := d.Execute(context.Background(), "memory", "fetch", nil, "x")
	if !errors.Is(err, ErrActionNotSupported) {
		t.Fatalf("expected ErrActionNotSupported, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "fetch") {
		t.Errorf("diagnostic should name the attempted action: %s", msg)
	}
	if !strings.Contains(msg, "remember, recall, forget") {
		t.Errorf("diagnostic should list supported actions: %s", msg)
	}
}

func TestExecuteActionAliasShortCircuits(t *testing.T) {
	_, d := dispatcherFixture(t)

	// "search" is an exact alias for "recall"; the diagnostic should name
	// exactly that, before any fuzzy matching.
	_, err := d.Execute(context.Background(), "memory", "search", nil, "x")
	if !errors.Is(err, ErrActionNotSupported) {
		t.Fatalf("expected ErrActionNotSupported, got %v", err)
	}
	if !strings.Contains(err.Error(), `"recall"`) {
		t.Errorf("alias table should suggest recall: %s", err.Error())
	}

	// "write" aliases to "write_file" on the files capability.
	_, err = d.Execute(context.Background(), "files", "write", nil, "x")
	if err == nil || !strings.Contains(err.Error(), `"write_file"`) {
		t.Errorf("alias table should suggest write_file: %v", err)
	}
}

func TestExecuteMissingRequiredParam(t *testing.T) {
	_, d := dispatcherFixture(t)

	_, err := d.Execute(context.Background(), "memory", "recall", nil, "")
	if !errors.Is(err, ErrMissingRequiredParam) {
		t.Fatalf("expected ErrMissingRequiredParam, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "query") {
		t.Errorf("diagnostic should name the missing param: %s", msg)
	}
	if !strings.Contains(msg, "Example:") {
		t.Errorf("diagnostic should include the registered example: %s", msg)
	}
}

func TestExecuteContentSatisfiesRequiredParam(t *testing.T) {
	_, d := dispatcherFixture(t)

	// Free text stands in for the required query param.
	if _, err := d.Execute(context.Background(), "memory", "recall", nil, "pizza"); err != nil {
		t.Errorf("content should satisfy required param, got %v", err)
	}

	// So does a content-alias attribute, via effective content.
	if _, err := d.Execute(context.Background(), "memory", "recall",
		map[string]string{"query": "pizza"}, ""); err != nil {
		t.Errorf("query param should satisfy required param, got %v", err)
	}
}

func TestExecuteHandlerErrorPropagates(t *testing.T) {
	reg := NewRegistry()
	sentinel := errors.New("backend down")
	reg.MustRegister(&Capability{
		Name:             "web",
		SupportedActions: []string{"fetch"},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			return "", sentinel
		},
	})
	d := NewDispatcher(reg)

	_, err := d.Execute(context.Background(), "web", "fetch", nil, "http://example.com")
	if !errors.Is(err, sentinel) {
		t.Errorf("handler error should propagate verbatim, got %v", err)
	}
}

func TestExecuteHandlerReceivesActionParam(t *testing.T) {
	reg := NewRegistry()
	var seen map[string]string
	reg.MustRegister(&Capability{
		Name:             "probe",
		SupportedActions: []string{"ping"},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			seen = params
			return "ok", nil
		},
	})
	d := NewDispatcher(reg)

	orig := map[string]string{"k": "v"}
	if _, err := d.Execute(context.Background(), "probe", "ping", orig, ""); err != nil {
		t.Fatal(err)
	}
	if seen["action"] != "ping" || seen["k"] != "v" {
		t.Errorf("handler params = %v, want action merged in", seen)
	}
	if _, ok := orig["action"]; ok {
		t.Error("caller's params map must not be mutated")
	}
}

func TestDispatchExtracted(t *testing.T) {
	reg, d := dispatcherFixture(t)

	e := NewExtractor(reg)
	batch := e.Extract(`<capability name="memory" action="recall" query="pizza" />`)
	if len(batch) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(batch))
	}
	got, err := d.Dispatch(context.Background(), batch[0])
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !strings.Contains(got, "query=pizza") {
		t.Errorf("unexpected result: %q", got)
	}
}
