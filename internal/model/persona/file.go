package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of a persona override file. Operators can
// tune instruction text and greetings without a rebuild; ids must match a
// built-in persona.
type overrideFile struct {
	Personas []struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		Instructions string `yaml:"instructions"`
		Greeting     string `yaml:"greeting"`
	} `yaml:"personas"`
}

// ApplyOverrides merges a YAML override file into the base persona set.
// Capability sets and restaurant bindings are not overridable.
func ApplyOverrides(path string, base []Persona) ([]Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse personas file %s: %w", path, err)
	}

	merged := append([]Persona(nil), base...)
	for _, o := range file.Personas {
		idx := -1
		for i := range merged {
			if merged[i].ID == o.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("personas file %s: unknown persona id %q", path, o.ID)
		}
		if o.Name != "" {
			merged[idx].Name = o.Name
		}
		if o.Instructions != "" {
			merged[idx].Instructions = o.Instructions
		}
		if o.Greeting != "" {
			merged[idx].Greeting = o.Greeting
		}
	}
	return merged, nil
}
