// Package rules loads jurisdiction rule sets. A rules file may extend
// another jurisdiction in the same directory; the child is deep-merged
// over the parent before decoding, so loaded rules are always fully
// resolved.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules is a merged policy document for one jurisdiction.
type Rules struct {
	Extends             string   `yaml:"extends,omitempty"`
	CrisisKeywords      []string `yaml:"crisis_keywords,omitempty"`
	ProhibitedDiagnosis []string `yaml:"prohibited_diagnosis,omitempty"`
	ProhibitedTreatment []string `yaml:"prohibited_treatment,omitempty"`
	OtheringTerms       []string `yaml:"othering_terms,omitempty"`
	GroundingPhrases    []string `yaml:"grounding_phrases,omitempty"`
	CrisisResources     []string `yaml:"crisis_resources,omitempty"`

	// DisclosureEveryTurns requires an AI self-disclosure at least once
	// every N assistant turns. Zero disables the check.
	DisclosureEveryTurns int `yaml:"disclosure_every_turns,omitempty"`
}

const maxInheritanceDepth = 8

// Load reads a rules file, resolving jurisdiction inheritance.
func Load(path string) (*Rules, error) {
	merged, err := loadMerged(path, 0)
	if err != nil {
		return nil, err
	}

	b, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("rules: remarshal %q: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("rules: decode %q: %w", path, err)
	}
	r.Extends = ""
	return &r, nil
}

func loadMerged(path string, depth int) (map[string]any, error) {
	if depth > maxInheritanceDepth {
		return nil, fmt.Errorf("rules: inheritance too deep at %q", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %q: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("rules: parse %q: %w", path, err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	parentName, _ := doc["extends"].(string)
	parentName = strings.TrimSpace(parentName)
	if parentName == "" {
		return doc, nil
	}

	// extends may name the jurisdiction ("base") or the file ("base.yaml").
	if filepath.Ext(parentName) == "" {
		parentName += filepath.Ext(path)
	}
	parentPath := filepath.Join(filepath.Dir(path), parentName)
	parent, err := loadMerged(parentPath, depth+1)
	if err != nil {
		return nil, err
	}

	merged := deepMerge(parent, doc)
	delete(merged, "extends")
	return merged, nil
}

// deepMerge overlays child on parent. Maps merge recursively; any other
// child value replaces the parent's.
func deepMerge(parent, child map[string]any) map[string]any {
	out := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, cv := range child {
		pm, pok := out[k].(map[string]any)
		cm, cok := cv.(map[string]any)
		if pok && cok {
			out[k] = deepMerge(pm, cm)
			continue
		}
		out[k] = cv
	}
	return out
}

// Jurisdiction derives the jurisdiction name from a rules file path:
// the filename with its extension stripped ("rules/ny.yaml" -> "ny").
func Jurisdiction(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
