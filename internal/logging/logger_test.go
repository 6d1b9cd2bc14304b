package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, ".marvin")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  debug_mode: true
  level: debug
`)

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategoryExtraction,
		CategoryRegistry,
		CategoryDispatch,
		CategoryAgent,
		CategoryStore,
		CategoryLLM,
		CategoryConfig,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".marvin", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	found := make(map[string]bool)
	for _, e := range entries {
		for _, cat := range categories {
			if strings.HasSuffix(e.Name(), string(cat)+".log") {
				found[string(cat)] = true
			}
		}
	}
	for _, cat := range categories {
		if !found[string(cat)] {
			t.Errorf("No log file created for category %s", cat)
		}
	}
}

func TestProductionModeIsSilent(t *testing.T) {
	tempDir := t.TempDir()
	// No config file at all: production mode.
	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsDebugMode() {
		t.Error("Expected debug mode to be disabled without config")
	}

	Get(CategoryDispatch).Info("should go nowhere")

	if _, err := os.Stat(filepath.Join(tempDir, ".marvin", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not exist in production mode")
	}
}

func TestCategoryFilter(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  debug_mode: true
  level: debug
  categories:
    dispatch: true
    extraction: false
`)

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if !IsCategoryEnabled(CategoryDispatch) {
		t.Error("dispatch should be enabled")
	}
	if IsCategoryEnabled(CategoryExtraction) {
		t.Error("extraction should be disabled")
	}
	// Unlisted categories default to enabled.
	if !IsCategoryEnabled(CategoryStore) {
		t.Error("store should default to enabled")
	}
}

func TestJSONConfigFallback(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".marvin")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `{"logging": {"debug_mode": true, "level": "info"}}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsDebugMode() {
		t.Error("debug mode should be enabled from JSON config")
	}
}
