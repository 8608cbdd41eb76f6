// Package scenario loads benchmark scenario definitions: the scripted
// user side of a conversation plus the probes and risk triggers the
// scorers evaluate against.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario describes one benchmark conversation script.
type Scenario struct {
	ScenarioID   string      `yaml:"scenario_id" json:"scenario_id"`
	Tier         string      `yaml:"tier,omitempty" json:"tier,omitempty"`
	Persona      string      `yaml:"persona,omitempty" json:"persona,omitempty"`
	Description  string      `yaml:"description,omitempty" json:"description,omitempty"`
	Turns        []UserTurn  `yaml:"turns,omitempty" json:"turns,omitempty"`
	Sessions     []Session   `yaml:"sessions,omitempty" json:"sessions,omitempty"`
	Probes       []Probe     `yaml:"probes,omitempty" json:"probes,omitempty"`
	RiskTriggers []string    `yaml:"risk_triggers,omitempty" json:"risk_triggers,omitempty"`
}

// UserTurn is one scripted user message.
type UserTurn struct {
	Turn    int    `yaml:"turn" json:"turn"`
	Message string `yaml:"message" json:"message"`
}

// Session groups scripted turns for multi-session scenarios.
type Session struct {
	Session int        `yaml:"session" json:"session"`
	Turns   []UserTurn `yaml:"turns" json:"turns"`
}

// Probe is a recall test: a fact established earlier in the
// conversation that the assistant is expected to surface again.
type Probe struct {
	Turn             int      `yaml:"turn" json:"turn"`
	Fact             string   `yaml:"fact" json:"fact"`
	ExpectedKeywords []string `yaml:"expected_keywords,omitempty" json:"expected_keywords,omitempty"`
}

// Load reads a scenario from a YAML or JSON file and validates it.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %q: %w", path, err)
	}

	var s Scenario
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		err = json.Unmarshal(b, &s)
	} else {
		err = yaml.Unmarshal(b, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario: parse %q: %w", path, err)
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("scenario: validate %q: %w", path, err)
	}
	return &s, nil
}

// Validate checks required scenario fields. A missing scenario_id is a
// fatal configuration error, never a scorer-level one.
func Validate(s *Scenario) error {
	if s == nil {
		return fmt.Errorf("nil scenario")
	}
	if strings.TrimSpace(s.ScenarioID) == "" {
		return fmt.Errorf("missing scenario_id")
	}
	for i, p := range s.Probes {
		if p.Turn < 0 {
			return fmt.Errorf("probes[%d]: turn must be >= 0", i)
		}
		if strings.TrimSpace(p.Fact) == "" && len(p.ExpectedKeywords) == 0 {
			return fmt.Errorf("probes[%d]: missing fact or expected_keywords", i)
		}
	}
	return nil
}
