package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set test environment variables
	os.Setenv("COMFY_DIR", "/opt/comfy")
	os.Setenv("COMFY_API_URL", "http://localhost:9999/")
	os.Setenv("IMAGE_NODE_TITLE", "my_image_node")
	os.Setenv("POLL_INTERVAL_MS", "250")
	os.Setenv("ENABLE_FILE_LOGGING", "true")

	defer func() {
		os.Unsetenv("COMFY_DIR")
		os.Unsetenv("COMFY_API_URL")
		os.Unsetenv("IMAGE_NODE_TITLE")
		os.Unsetenv("POLL_INTERVAL_MS")
		os.Unsetenv("ENABLE_FILE_LOGGING")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.ComfyDir != "/opt/comfy" {
		t.Errorf("Expected ComfyDir to be '/opt/comfy', got '%s'", cfg.ComfyDir)
	}
	// Trailing slash must be trimmed so URL joining stays predictable
	if cfg.APIURL != "http://localhost:9999" {
		t.Errorf("Expected APIURL to be 'http://localhost:9999', got '%s'", cfg.APIURL)
	}
	if cfg.ImageNodeTitle != "my_image_node" {
		t.Errorf("Expected ImageNodeTitle to be 'my_image_node', got '%s'", cfg.ImageNodeTitle)
	}
	if cfg.TextNodeTitle != DefaultTextNodeTitle {
		t.Errorf("Expected default TextNodeTitle, got '%s'", cfg.TextNodeTitle)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("Expected PollInterval of 250ms, got %v", cfg.PollInterval)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}

	wantTemplate := filepath.Join("/opt/comfy", "user", "default", "workflows", "clipboard_processor.json")
	if cfg.WorkflowTemplate != wantTemplate {
		t.Errorf("Expected derived WorkflowTemplate '%s', got '%s'", wantTemplate, cfg.WorkflowTemplate)
	}
	wantInput := filepath.Join("/opt/comfy", "input", DefaultInputSubdir)
	if cfg.InputDir() != wantInput {
		t.Errorf("Expected InputDir '%s', got '%s'", wantInput, cfg.InputDir())
	}
	if cfg.ClientID == "" {
		t.Errorf("Expected a generated ClientID, got empty string")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidateRequiresComfyDir(t *testing.T) {
	os.Unsetenv("COMFY_DIR")
	os.Unsetenv("WORKFLOW_TEMPLATE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error without COMFY_DIR")
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "clipcomfy.env")
	content := "COMFY_DIR=" + dir + "\nTEXT_NODE_TITLE=custom_text\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	defer func() {
		os.Unsetenv("COMFY_DIR")
		os.Unsetenv("TEXT_NODE_TITLE")
	}()

	cfg, err := LoadWithOptions(LoadOptions{EnvPathOverride: envPath})
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.ComfyDir != dir {
		t.Errorf("Expected ComfyDir from env file to be '%s', got '%s'", dir, cfg.ComfyDir)
	}
	if cfg.TextNodeTitle != "custom_text" {
		t.Errorf("Expected TextNodeTitle 'custom_text', got '%s'", cfg.TextNodeTitle)
	}
}
