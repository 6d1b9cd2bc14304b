package config

import "time"

// LLMConfig configures the model client.
type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider"` // gemini, fake
	APIKey   string `yaml:"api_key" json:"api_key"`
	Model    string `yaml:"model" json:"model"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

// TimeoutDuration parses the configured timeout, defaulting to two minutes
// when unset or unparseable.
func (l LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
