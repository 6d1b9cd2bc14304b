package config

// MemoryConfig configures the SQLite store.
type MemoryConfig struct {
	// DatabasePath is the store location, workspace-relative unless
	// absolute.
	DatabasePath string `yaml:"database_path" json:"database_path"`

	// RecallLimit caps how many memories one recall returns.
	RecallLimit int `yaml:"recall_limit" json:"recall_limit"`
}
