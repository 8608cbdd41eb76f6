package llm

import (
	"strings"
	"testing"

	"github.com/stellarlinkco/invisiblebench/internal/config"
)

func TestNewRegistryFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"claude": {APIKey: "k1"},
		"openai": {APIKey: "k2", Model: "gpt-4o-mini"},
	}

	reg, err := NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig: %v", err)
	}
	if _, ok := reg.Get("claude"); !ok {
		t.Fatalf("claude not registered")
	}
	if _, ok := reg.Get("OPENAI "); !ok {
		t.Fatalf("openai lookup should be case-insensitive")
	}

	cfg.LLM.Providers["mystery"] = config.ProviderConfig{}
	if _, err := NewRegistryFromConfig(cfg); err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("unknown provider: got %v", err)
	}

	if _, err := NewRegistryFromConfig(nil); err == nil {
		t.Fatalf("nil config: expected error")
	}
}

func TestDefaultProviderFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "claude"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"claude": {APIKey: "k"},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("provider name: got %q", p.Name())
	}
}

func TestDefaultProviderFromConfig_SingleProviderFallback(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "claude"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "k"},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("provider name: got %q", p.Name())
	}
}

func TestDefaultProviderFromConfig_NotConfigured(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "claude"
	cfg.LLM.Providers = map[string]config.ProviderConfig{}

	_, err := DefaultProviderFromConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("got %v", err)
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(nil)
	if _, ok := reg.Get(""); ok {
		t.Fatalf("empty name lookup should miss")
	}

	reg.Register(NewOpenAIProvider("k", "", ""))
	if _, ok := reg.Get(" OpenAI "); !ok {
		t.Fatalf("lookup should normalize name")
	}
}
