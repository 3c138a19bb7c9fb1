// instructions.go
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InstructionTemplate is one entry of the challenge instruction catalog.
type InstructionTemplate struct {
	Type ChallengeType `yaml:"type"`
	Text string        `yaml:"text"`
}

// InstructionCatalog holds the per-type instruction templates shown to the
// user. Templates may contain a %d placeholder for the challenge duration in
// seconds.
type InstructionCatalog struct {
	Instructions []InstructionTemplate `yaml:"instructions"`
}

// DefaultInstructionCatalog returns the built-in templates, used when no
// catalog file is configured.
func DefaultInstructionCatalog() *InstructionCatalog {
	return &InstructionCatalog{
		Instructions: []InstructionTemplate{
			{Type: ChallengePressurePattern, Text: "Press and vary your pressure naturally on the trackpad for %d seconds."},
			{Type: ChallengeRhythmTest, Text: "Tap a comfortable, natural rhythm on the trackpad for %d seconds."},
			{Type: ChallengeSustainedPressure, Text: "Press and hold steady, comfortable pressure on the trackpad for %d seconds."},
			{Type: ChallengeProgressivePressure, Text: "Starting light, gradually increase your pressure over %d seconds."},
		},
	}
}

// LoadInstructionCatalog reads and parses an instruction catalog YAML file.
func LoadInstructionCatalog(path string) (*InstructionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instruction catalog: %w", err)
	}

	var catalog InstructionCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instruction catalog YAML: %w", err)
	}

	for _, tmpl := range catalog.Instructions {
		if _, err := ParseChallengeType(string(tmpl.Type)); err != nil {
			return nil, fmt.Errorf("invalid instruction catalog entry: %w", err)
		}
	}

	return &catalog, nil
}

// InstructionsFor renders the instruction text for a challenge type and
// duration, falling back to the built-in template when the catalog has no
// entry for the type.
func (c *InstructionCatalog) InstructionsFor(t ChallengeType, durationSeconds int) string {
	if c != nil {
		for _, tmpl := range c.Instructions {
			if tmpl.Type == t {
				return fmt.Sprintf(tmpl.Text, durationSeconds)
			}
		}
	}
	for _, tmpl := range DefaultInstructionCatalog().Instructions {
		if tmpl.Type == t {
			return fmt.Sprintf(tmpl.Text, durationSeconds)
		}
	}
	return ""
}
