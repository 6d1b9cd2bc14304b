package config

// LoggingConfig configures the category logger. The logging package reads
// the same file independently to avoid a circular import; this struct
// exists so config consumers can inspect and rewrite the section.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Categories map[string]bool `yaml:"categories" json:"categories"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
}
