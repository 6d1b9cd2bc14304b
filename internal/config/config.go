// Package config loads the workspace configuration from
// .marvin/config.yaml (or config.json), applies defaults, and supports
// environment overrides and live reload.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all agent configuration.
type Config struct {
	// Name is the agent's display name.
	Name string `yaml:"name" json:"name"`

	// LLM configures the model client.
	LLM LLMConfig `yaml:"llm" json:"llm"`

	// Memory configures the SQLite store.
	Memory MemoryConfig `yaml:"memory" json:"memory"`

	// Agent configures the turn loop.
	Agent AgentConfig `yaml:"agent" json:"agent"`

	// Logging configures the category logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	workspace string
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Name: "marvin",
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  "2m",
		},
		Memory: MemoryConfig{
			DatabasePath: filepath.Join(".marvin", "marvin.db"),
			RecallLimit:  10,
		},
		Agent: AgentConfig{
			MaxInvocationsPerTurn: 8,
			ConcurrentDispatch:    false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the workspace, falling back to defaults
// when no config file exists, and applies environment overrides last.
func Load(workspace string) (*Config, error) {
	cfg := Default()
	cfg.workspace = workspace

	path, data, err := readConfigFile(workspace)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// No file: defaults plus env.
		cfg.applyEnv()
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// readConfigFile returns the first config file found in the workspace.
func readConfigFile(workspace string) (string, []byte, error) {
	var lastErr error
	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(workspace, ".marvin", name)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		lastErr = err
	}
	return "", nil, lastErr
}

// applyEnv overrides config values from the environment. Overrides always
// win over file values so deployments can rotate keys without editing the
// workspace.
func (c *Config) applyEnv() {
	if v := os.Getenv("MARVIN_API_KEY"); v != "" {
		c.LLM.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("MARVIN_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("MARVIN_DB_PATH"); v != "" {
		c.Memory.DatabasePath = v
	}
}

// Workspace returns the directory this config was loaded for.
func (c *Config) Workspace() string {
	return c.workspace
}

// DatabasePath resolves the store path against the workspace.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Memory.DatabasePath) {
		return c.Memory.DatabasePath
	}
	return filepath.Join(c.workspace, c.Memory.DatabasePath)
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.Memory.RecallLimit < 0 {
		return fmt.Errorf("memory.recall_limit cannot be negative")
	}
	if c.Agent.MaxInvocationsPerTurn <= 0 {
		return fmt.Errorf("agent.max_invocations_per_turn must be positive")
	}
	return nil
}
