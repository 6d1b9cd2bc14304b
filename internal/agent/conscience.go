package agent

import (
	"context"

	"marvin/internal/capability"
)

// Conscience reviews a batch of extracted invocations before dispatch.
// Implementations may filter, reorder, or rewrite the batch; the returned
// slice replaces it wholesale.
type Conscience interface {
	Review(ctx context.Context, batch []capability.ExtractedCapability) []capability.ExtractedCapability
}

// ConscienceFunc adapts a function to the Conscience interface.
type ConscienceFunc func(ctx context.Context, batch []capability.ExtractedCapability) []capability.ExtractedCapability

func (f ConscienceFunc) Review(ctx context.Context, batch []capability.ExtractedCapability) []capability.ExtractedCapability {
	return f(ctx, batch)
}
