package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	EnvPathEnvVar = "CLIPCOMFY_ENV"

	DefaultAPIURL         = "http://127.0.0.1:8188"
	DefaultInputSubdir    = "clipboard_images"
	DefaultImageNodeTitle = "load_clipboard_image"
	DefaultTextNodeTitle  = "load_clipboard_text"
)

type LoadOptions struct {
	EnvPathOverride string
}

type Config struct {
	// ComfyDir is the ComfyUI installation directory. InputDir and the
	// default WorkflowTemplate are derived from it.
	ComfyDir          string
	InputSubdir       string
	WorkflowTemplate  string
	APIURL            string
	ImageNodeTitle    string
	TextNodeTitle     string
	ClientID          string
	PollInterval      time.Duration
	SubmitTimeout     time.Duration
	EnableFileLogging bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Configuration sources in priority order:
	// 1) explicit --env path
	// 2) .env in the application (executable) directory
	// 3) CLIPCOMFY_ENV env var as a path to a config file
	if envPath := resolveEnvPath(opts); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	comfyDir := os.Getenv("COMFY_DIR")

	template := os.Getenv("WORKFLOW_TEMPLATE")
	if template == "" && comfyDir != "" {
		template = filepath.Join(comfyDir, "user", "default", "workflows", "clipboard_processor.json")
	}

	cfg := &Config{
		ComfyDir:          comfyDir,
		InputSubdir:       getEnvWithDefault("CLIPBOARD_INPUT_SUBDIR", DefaultInputSubdir),
		WorkflowTemplate:  template,
		APIURL:            strings.TrimRight(getEnvWithDefault("COMFY_API_URL", DefaultAPIURL), "/"),
		ImageNodeTitle:    getEnvWithDefault("IMAGE_NODE_TITLE", DefaultImageNodeTitle),
		TextNodeTitle:     getEnvWithDefault("TEXT_NODE_TITLE", DefaultTextNodeTitle),
		ClientID:          getEnvWithDefault("CLIENT_ID", "clipcomfy-"+uuid.NewString()),
		PollInterval:      time.Duration(getEnvIntWithDefault("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		SubmitTimeout:     time.Duration(getEnvIntWithDefault("SUBMIT_TIMEOUT_SEC", 30)) * time.Second,
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	return cfg, nil
}

// InputDir is the directory clipboard images are persisted to. ComfyUI
// resolves image inputs relative to <ComfyDir>/input.
func (c *Config) InputDir() string {
	return filepath.Join(c.ComfyDir, "input", c.InputSubdir)
}

// Validate checks the fields the watch and send commands cannot run without.
func (c *Config) Validate() error {
	if c.ComfyDir == "" {
		return fmt.Errorf("COMFY_DIR is required")
	}
	if c.WorkflowTemplate == "" {
		return fmt.Errorf("WORKFLOW_TEMPLATE is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_MS must be positive")
	}
	return nil
}

func resolveEnvPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.EnvPathOverride); override != "" {
		return override
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
