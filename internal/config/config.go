// Package config reads and writes ledgerly.yaml. Environment variables
// (optionally from a .env file) override the AI settings so API keys
// stay out of the tracked config.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerly.yaml configuration.
type Config struct {
	Profile    ProfileConfig    `yaml:"profile"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	AI         AIConfig         `yaml:"ai"`
	Git        GitConfig        `yaml:"git"`
	Banks      []BankFeed       `yaml:"banks,omitempty"`
}

// BankFeed maps a detected bank statement to a registry account, so
// imports can resolve the target account without a flag.
type BankFeed struct {
	BankCode  string `yaml:"bank_code"`
	AccountID int    `yaml:"account_id"`
}

// FeedAccount returns the account mapped to a bank code, or 0.
func (c *Config) FeedAccount(bankCode string) int {
	for _, b := range c.Banks {
		if b.BankCode == bankCode {
			return b.AccountID
		}
	}
	return 0
}

// ProfileConfig identifies the ledger owner.
type ProfileConfig struct {
	Name         string `yaml:"name"`
	BaseCurrency string `yaml:"base_currency"`
}

// ThresholdsConfig controls import auto-confirmation behavior.
type ThresholdsConfig struct {
	AutoConfirm float64 `yaml:"auto_confirm"`
	ReviewFlag  float64 `yaml:"review_flag"`
}

// AIConfig points at an OpenAI-compatible classification endpoint. A
// local Ollama server works through BaseURL. The API key itself is read
// from the environment variable named by APIKeyEnv.
type AIConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a ledgerly.yaml file from disk and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// LoadEnv reads a .env file if present. Missing files are not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// applyEnv lets the environment override AI endpoint settings.
func (c *Config) applyEnv() {
	if v := os.Getenv("LEDGERLY_AI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("LEDGERLY_AI_MODEL"); v != "" {
		c.AI.Model = v
	}
}

// APIKey resolves the AI API key from the environment.
func (c *Config) APIKey() string {
	if c.AI.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.AI.APIKeyEnv)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(profileName, baseCurrency string) *Config {
	return &Config{
		Profile: ProfileConfig{
			Name:         profileName,
			BaseCurrency: baseCurrency,
		},
		Thresholds: ThresholdsConfig{
			AutoConfirm: 0.80,
			ReviewFlag:  0.50,
		},
		AI: AIConfig{
			Enabled:   false,
			Model:     "gpt-4o-mini",
			APIKeyEnv: "LEDGERLY_AI_API_KEY",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Ledgerly",
			AuthorEmail: "ledger@ledgerly.dev",
		},
	}
}
