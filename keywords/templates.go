package keywords

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Templates holds the prefix and suffix lists used for expansion.
type Templates struct {
	Prefixes []string `yaml:"prefixes" json:"prefixes"`
	Suffixes []string `yaml:"suffixes" json:"suffixes"`
}

// DefaultTemplates returns the built-in templates. Every call returns fresh
// slices, so callers may modify the result.
func DefaultTemplates() Templates {
	return Templates{
		Prefixes: []string{"learning", "Programming with"},
		Suffixes: []string{"tutorials"},
	}
}

// Clone returns a deep copy of t.
func (t Templates) Clone() Templates {
	return Templates{
		Prefixes: append([]string(nil), t.Prefixes...),
		Suffixes: append([]string(nil), t.Suffixes...),
	}
}

// LoadTemplates reads templates from a YAML file of the form
//
//	prefixes: [learning, Programming with]
//	suffixes: [tutorials]
//
// An empty path returns DefaultTemplates.
func LoadTemplates(path string) (Templates, error) {
	if path == "" {
		return DefaultTemplates(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("keywords: read templates: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes YAML templates.
func ParseTemplates(data []byte) (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Templates{}, fmt.Errorf("keywords: parse templates: %w", err)
	}
	return t, nil
}
