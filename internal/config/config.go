package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// DefaultSaveInterval is how many scorer completions pass between
// checkpoint writes when the config does not say otherwise.
const DefaultSaveInterval = 1

type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Scoring ScoringConfig `yaml:"scoring"`
	Storage StorageConfig `yaml:"storage"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type ScoringConfig struct {
	// Weights maps dimension name to its share of the composite score.
	// Expected to sum to roughly 1.0; not enforced.
	Weights      map[string]float64 `yaml:"weights,omitempty"`
	AllowLLM     bool               `yaml:"allow_llm,omitempty"`
	SaveInterval int                `yaml:"save_interval,omitempty"`
}

type StorageConfig struct {
	RunsDir         string `yaml:"runs_dir,omitempty"`
	LeaderboardPath string `yaml:"leaderboard_path,omitempty"`
}

// DefaultWeights is the canonical five-dimension weighting used when a
// config file does not override it.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"memory":     0.16,
		"trauma":     0.15,
		"belonging":  0.34,
		"compliance": 0.15,
		"safety":     0.20,
	}
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config usable without any file on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "claude"
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}

	if len(cfg.Scoring.Weights) == 0 {
		cfg.Scoring.Weights = DefaultWeights()
	}
	if cfg.Scoring.SaveInterval <= 0 {
		cfg.Scoring.SaveInterval = DefaultSaveInterval
	}

	if strings.TrimSpace(cfg.Storage.RunsDir) == "" {
		cfg.Storage.RunsDir = "runs"
	}
	if strings.TrimSpace(cfg.Storage.LeaderboardPath) == "" {
		cfg.Storage.LeaderboardPath = "data/leaderboard.db"
	}
}
