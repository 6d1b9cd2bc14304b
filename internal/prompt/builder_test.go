package prompt

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"marvin/internal/capability"
	"marvin/internal/store"
)

func testRegistry(t *testing.T) *capability.Registry {
	t.Helper()
	reg := capability.NewRegistry()
	reg.MustRegister(&capability.Capability{
		Name:             "memory",
		SupportedActions: []string{"remember", "recall", "forget"},
		RequiredParams:   []string{"query"},
		Description:      "Stores and retrieves facts about the user.",
		Examples: map[string]string{
			"recall": `<capability name="memory" action="recall" query="pizza" />`,
		},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			return "", nil
		},
	})
	reg.MustRegister(&capability.Capability{
		Name:             "calculator",
		SupportedActions: []string{"calculate"},
		Handler: func(ctx context.Context, params map[string]string, content string) (string, error) {
			return "", nil
		},
	})
	return reg
}

func TestBuildUsesDefaultPersonaWithoutStore(t *testing.T) {
	b := NewBuilder(testRegistry(t), nil)
	got := b.Build(context.Background())

	if !strings.Contains(got, "You are Marvin") {
		t.Error("expected default persona in prompt")
	}
	if !strings.Contains(got, "## Available Capabilities") {
		t.Error("expected capability manual in prompt")
	}
}

func TestBuildPrefersStoredPrompt(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.SetPrompt(ctx, SystemPromptName, "You are a grumpy robot."); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(testRegistry(t), st)
	got := b.Build(ctx)

	if !strings.Contains(got, "You are a grumpy robot.") {
		t.Error("expected stored persona in prompt")
	}
	if strings.Contains(got, "You are Marvin") {
		t.Error("default persona should be replaced by the stored one")
	}
}

func TestCapabilityManualListsEverything(t *testing.T) {
	b := NewBuilder(testRegistry(t), nil)
	got := b.CapabilityManual()

	for _, want := range []string{
		"### memory",
		"### calculator",
		"Actions: remember, recall, forget",
		"Required parameters: query",
		"Stores and retrieves facts about the user.",
		`Example (recall): <capability name="memory" action="recall" query="pizza" />`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("manual missing %q\nmanual:\n%s", want, got)
		}
	}

	// Capabilities render in sorted order.
	if strings.Index(got, "### calculator") > strings.Index(got, "### memory") {
		t.Error("expected capabilities sorted by name")
	}
}

func TestCapabilityManualEmptyRegistry(t *testing.T) {
	b := NewBuilder(capability.NewRegistry(), nil)
	got := b.CapabilityManual()
	if !strings.Contains(got, "No capabilities") {
		t.Errorf("got %q", got)
	}
}
