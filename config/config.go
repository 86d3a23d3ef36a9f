// Package config holds the runtime configuration for segnalago.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported vision-language model providers.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

type Config struct {
	ServerAddr string `json:"server_addr"`
	ReportsDir string `json:"reports_dir"`
	DataDir    string `json:"data_dir"`

	// Vision-language model client. Credentials and endpoint are
	// externally supplied; the core never derives them.
	Provider    string  `json:"llm_provider"`
	Model       string  `json:"model"`
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`

	// Chat transcript persistence. Off by default; reports themselves
	// are never persisted.
	TranscriptsEnabled bool   `json:"transcripts_enabled"`
	TranscriptsDBPath  string `json:"transcripts_db_path"`

	Debug bool `json:"debug"`

	// Eino visual debug plugin.
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file, then apply overrides.
	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ServerAddr: ":8080",
		ReportsDir: filepath.Join(root, "reports"),
		DataDir:    filepath.Join(root, "data"),

		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		BaseURL:     "https://api.openai.com/v1",
		Temperature: 0.7,
		MaxTokens:   2000,

		TranscriptsEnabled: false,
		TranscriptsDBPath:  filepath.Join(root, "data", "transcripts.db"),

		Debug:            false,
		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("SERVER_ADDR"); val != "" {
		c.ServerAddr = val
	}
	if val := os.Getenv("REPORTS_DIR"); val != "" {
		c.ReportsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.Provider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.BaseURL = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("LLM_TEMPERATURE"); val != "" {
		if temp, err := strconv.ParseFloat(val, 64); err == nil {
			c.Temperature = temp
		}
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = n
		}
	}

	if val := os.Getenv("TRANSCRIPTS_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.TranscriptsEnabled = enabled
		}
	}
	if val := os.Getenv("TRANSCRIPTS_DB"); val != "" {
		c.TranscriptsDBPath = val
	}

	if val := os.Getenv("SEGNALAGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderDeepSeek:
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f outside [0, 2]", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	if strings.TrimSpace(c.ServerAddr) == "" {
		return fmt.Errorf("server addr is required")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ReportsDir, c.DataDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
