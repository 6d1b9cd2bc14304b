package config

// AgentConfig configures the conversation turn loop.
type AgentConfig struct {
	// MaxInvocationsPerTurn caps how many extracted invocations one turn
	// will dispatch; the rest are dropped with a log entry.
	MaxInvocationsPerTurn int `yaml:"max_invocations_per_turn" json:"max_invocations_per_turn"`

	// ConcurrentDispatch runs one turn's invocations in parallel instead
	// of in priority order. Handlers must be independent for this to be
	// safe; it is off by default.
	ConcurrentDispatch bool `yaml:"concurrent_dispatch" json:"concurrent_dispatch"`
}
