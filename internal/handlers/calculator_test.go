package handlers

import (
	"context"
	"testing"
)

func TestCalculatorExpressions(t *testing.T) {
	cap := NewCalculatorCapability()
	ctx := context.Background()

	tests := []struct {
		expr string
		want string
	}{
		{"2 + 2", "4"},
		{"2 + 2 * 3", "8"},
		{"(2 + 2) * 3", "12"},
		{"10 / 4", "2.5"},
		{"-5 + 3", "-2"},
		{"2 ^ 10", "1024"},
		{"2 ^ 3 ^ 2", "512"},
		{"10 % 3", "1"},
		{"  7\t* (1 + 1) ", "14"},
		{"0.1 + 0.2", "0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := cap.Handler(ctx, map[string]string{"action": "calculate", "expression": tt.expr}, "")
			if err != nil {
				t.Fatalf("Handler(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Handler(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCalculatorUsesContentWhenNoExpressionParam(t *testing.T) {
	cap := NewCalculatorCapability()
	got, err := cap.Handler(context.Background(), map[string]string{"action": "calculate"}, "6 * 7")
	if err != nil {
		t.Fatal(err)
	}
	if got != "42" {
		t.Errorf("got %q, want 42", got)
	}
}

func TestCalculatorRejectsMalformedInput(t *testing.T) {
	cap := NewCalculatorCapability()
	ctx := context.Background()

	for _, expr := range []string{
		"",
		"2 +",
		"(2 + 3",
		"2 / 0",
		"hello",
		"2 2",
	} {
		t.Run(expr, func(t *testing.T) {
			if _, err := cap.Handler(ctx, map[string]string{"action": "calculate", "expression": expr}, ""); err == nil {
				t.Errorf("Handler(%q) expected error", expr)
			}
		})
	}
}
