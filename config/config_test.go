package config

import (
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.Temperature != 0.7 || cfg.MaxTokens != 2000 {
		t.Errorf("default model params = (%.1f, %d)", cfg.Temperature, cfg.MaxTokens)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", ProviderDeepSeek)
	t.Setenv("LLM_MODEL", "deepseek-chat")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LLM_MAX_TOKENS", "4096")
	t.Setenv("TRANSCRIPTS_ENABLED", "true")
	t.Setenv("SERVER_ADDR", ":9999")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.loadFromEnv()

	if cfg.Provider != ProviderDeepSeek {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Model != "deepseek-chat" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("temperature = %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("max tokens = %d", cfg.MaxTokens)
	}
	if !cfg.TranscriptsEnabled {
		t.Errorf("transcripts not enabled")
	}
	if cfg.ServerAddr != ":9999" {
		t.Errorf("server addr = %q", cfg.ServerAddr)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"provider":    func(c *Config) { c.Provider = "bedrock" },
		"model":       func(c *Config) { c.Model = " " },
		"temperature": func(c *Config) { c.Temperature = 3.5 },
		"max tokens":  func(c *Config) { c.MaxTokens = 0 },
		"server addr": func(c *Config) { c.ServerAddr = "" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfigWithRoot(t.TempDir())
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted bad value", name)
		}
	}
}
