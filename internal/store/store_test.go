package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "marvin.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRememberAndRecall(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Remember(ctx, "sam", "likes pizza"); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	if _, err := s.Remember(ctx, "sam", "allergic to cats"); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	if _, err := s.Remember(ctx, "alex", "likes pizza too"); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}

	got, err := s.Recall(ctx, "sam", "pizza", 10)
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 memory, got %d", len(got))
	}
	if got[0].Content != "likes pizza" {
		t.Errorf("content = %q", got[0].Content)
	}
	if got[0].UserID != "sam" {
		t.Errorf("recall crossed user boundary: %q", got[0].UserID)
	}
}

func TestRecallEmptyQueryReturnsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, m := range []string{"first", "second", "third"} {
		if _, err := s.Remember(ctx, "sam", m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recall(ctx, "sam", "", 2)
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit not respected: got %d", len(got))
	}
	if got[0].Content != "third" || got[1].Content != "second" {
		t.Errorf("order wrong: %q, %q", got[0].Content, got[1].Content)
	}
}

func TestForget(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Remember(ctx, "sam", "likes pizza"); err != nil {
		t.Fatal(err)
	}
	n, err := s.Forget(ctx, "sam", "pizza")
	if err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Forget removed %d rows, want 1", n)
	}

	// Idempotent.
	n, err = s.Forget(ctx, "sam", "pizza")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second Forget removed %d rows, want 0", n)
	}
}

func TestPromptLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.ActivePrompt(ctx, "PROMPT_SYSTEM"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for missing prompt, got %v", err)
	}

	if err := s.SetPrompt(ctx, "PROMPT_SYSTEM", "You are a helpful robot."); err != nil {
		t.Fatalf("SetPrompt failed: %v", err)
	}
	got, err := s.ActivePrompt(ctx, "PROMPT_SYSTEM")
	if err != nil {
		t.Fatalf("ActivePrompt failed: %v", err)
	}
	if got != "You are a helpful robot." {
		t.Errorf("prompt content = %q", got)
	}

	// Update in place.
	if err := s.SetPrompt(ctx, "PROMPT_SYSTEM", "You are a grumpy robot."); err != nil {
		t.Fatal(err)
	}
	got, err = s.ActivePrompt(ctx, "PROMPT_SYSTEM")
	if err != nil {
		t.Fatal(err)
	}
	if got != "You are a grumpy robot." {
		t.Errorf("prompt not replaced: %q", got)
	}
}
