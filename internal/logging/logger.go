// Package logging provides config-driven categorized file-based logging.
// Logs are written to .marvin/logs/ with separate files per category.
// Logging is controlled by debug_mode in the workspace config - when false,
// no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and capability bootstrap
	CategoryExtraction Category = "extraction" // Tag extraction and normalization
	CategoryRegistry   Category = "registry"   // Capability registration and lookup
	CategoryDispatch   Category = "dispatch"   // Invocation dispatch and diagnostics
	CategoryAgent      Category = "agent"      // Conversation turn loop
	CategoryStore      Category = "store"      // SQLite memory/prompt storage
	CategoryLLM        Category = "llm"        // Model API calls
	CategoryConfig     Category = "config"     // Config loading and watching
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig to avoid
// a circular import.
type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Categories map[string]bool `yaml:"categories" json:"categories"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
}

type configFile struct {
	Logging loggingConfig `yaml:"logging" json:"logging"`
}

// StructuredLogEntry is the JSON log line format.
type StructuredLogEntry struct {
	Timestamp int64          `json:"ts"`
	Category  string         `json:"cat"`
	Level     string         `json:"lvl"`
	Message   string         `json:"msg"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	workspace string
	config    loggingConfig
	configMu  sync.RWMutex
	logLevel  int
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory and loads config.
// Call once at startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".marvin", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
		config.DebugMode = false
	}

	// Silent no-op in production mode.
	if !config.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== Logging initialized ===")
	boot.Info("Workspace: %s", workspace)
	boot.Info("Log level: %s", config.Level)
	return nil
}

// loadConfig reads the logging section from .marvin/config.yaml, falling
// back to .marvin/config.json. YAML is a JSON superset, so one decoder
// covers both.
func loadConfig() error {
	configMu.Lock()
	defer configMu.Unlock()

	var data []byte
	var err error
	for _, name := range []string{"config.yaml", "config.json"} {
		data, err = os.ReadFile(filepath.Join(workspace, ".marvin", name))
		if err == nil {
			break
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			// No config = production mode (no logging).
			config.DebugMode = false
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	config = cf.Logging

	switch config.Level {
	case "debug":
		logLevel = LevelDebug
	case "info":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	return nil
}

// ReloadConfig reloads the config from disk. Called by the config watcher
// when the workspace config changes at runtime.
func ReloadConfig() error {
	return loadConfig()
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix for easy rotation.
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) logJSON(level, msg string) {
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("%s", data)
}

func (l *Logger) write(level int, tag, msg string) {
	if l.logger == nil || logLevel > level {
		return
	}
	if config.JSONFormat {
		l.logJSON(tag, msg)
	} else {
		l.logger.Printf("[%s] %s", tag, msg)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.write(LevelDebug, "DEBUG", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.write(LevelInfo, "INFO", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.write(LevelWarn, "WARN", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.write(LevelError, "ERROR", fmt.Sprintf(format, args...))
}

// StructuredLog writes a fully structured log entry with custom fields.
func (l *Logger) StructuredLog(level string, msg string, fields map[string]any) {
	if l.logger == nil {
		return
	}
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	if config.JSONFormat {
		if data, err := json.Marshal(entry); err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s | fields=%v", level, msg, fields)
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category.
func Boot(format string, args ...any) { Get(CategoryBoot).Info(format, args...) }

// BootWarn logs a warning to the boot category.
func BootWarn(format string, args ...any) { Get(CategoryBoot).Warn(format, args...) }

// BootError logs an error to the boot category.
func BootError(format string, args ...any) { Get(CategoryBoot).Error(format, args...) }

// Extraction logs to the extraction category.
func Extraction(format string, args ...any) { Get(CategoryExtraction).Info(format, args...) }

// ExtractionDebug logs debug to the extraction category.
func ExtractionDebug(format string, args ...any) { Get(CategoryExtraction).Debug(format, args...) }

// RegistryDebug logs debug to the registry category.
func RegistryDebug(format string, args ...any) { Get(CategoryRegistry).Debug(format, args...) }

// RegistryWarn logs a warning to the registry category.
func RegistryWarn(format string, args ...any) { Get(CategoryRegistry).Warn(format, args...) }

// Dispatch logs to the dispatch category.
func Dispatch(format string, args ...any) { Get(CategoryDispatch).Info(format, args...) }

// DispatchDebug logs debug to the dispatch category.
func DispatchDebug(format string, args ...any) { Get(CategoryDispatch).Debug(format, args...) }

// DispatchWarn logs a warning to the dispatch category.
func DispatchWarn(format string, args ...any) { Get(CategoryDispatch).Warn(format, args...) }

// Agent logs to the agent category.
func Agent(format string, args ...any) { Get(CategoryAgent).Info(format, args...) }

// AgentDebug logs debug to the agent category.
func AgentDebug(format string, args ...any) { Get(CategoryAgent).Debug(format, args...) }

// AgentError logs an error to the agent category.
func AgentError(format string, args ...any) { Get(CategoryAgent).Error(format, args...) }

// Store logs to the store category.
func Store(format string, args ...any) { Get(CategoryStore).Info(format, args...) }

// StoreDebug logs debug to the store category.
func StoreDebug(format string, args ...any) { Get(CategoryStore).Debug(format, args...) }

// LLM logs to the llm category.
func LLM(format string, args ...any) { Get(CategoryLLM).Info(format, args...) }

// LLMDebug logs debug to the llm category.
func LLMDebug(format string, args ...any) { Get(CategoryLLM).Debug(format, args...) }

// Config logs to the config category.
func Config(format string, args ...any) { Get(CategoryConfig).Info(format, args...) }

// ConfigWarn logs a warning to the config category.
func ConfigWarn(format string, args ...any) { Get(CategoryConfig).Warn(format, args...) }
