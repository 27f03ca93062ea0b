// Package catalog holds the prompt sets for the IWT website illustrations.
// The catalog ships embedded in the binary so the commands need no data files
// next to them.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// PromptSpec is one named image to generate. Name becomes the output
// filename stem, so it must be unique within its set.
type PromptSpec struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

type StyleGuides struct {
	Marketing string `yaml:"marketing"`
	Process   string `yaml:"process"`
}

type Catalog struct {
	StyleGuides StyleGuides  `yaml:"style_guides"`
	Hero        PromptSpec   `yaml:"hero"`
	Marketing   []PromptSpec `yaml:"marketing"`
	Process     []PromptSpec `yaml:"process"`
}

func Load() (*Catalog, error) {
	return Parse(promptsYAML)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt catalog: %w", err)
	}
	return &c, nil
}

// MarketingSpecs returns the marketing set with the shared style guide
// appended to every prompt.
func (c *Catalog) MarketingSpecs() []PromptSpec {
	return withStyleGuide(c.Marketing, c.StyleGuides.Marketing)
}

// ProcessSpecs returns the chained process-step set, style guide appended.
func (c *Catalog) ProcessSpecs() []PromptSpec {
	return withStyleGuide(c.Process, c.StyleGuides.Process)
}

// HeroSpec carries its full styling inline, no shared guide.
func (c *Catalog) HeroSpec() PromptSpec {
	return c.Hero
}

func withStyleGuide(specs []PromptSpec, guide string) []PromptSpec {
	out := make([]PromptSpec, len(specs))
	for i, spec := range specs {
		out[i] = PromptSpec{
			Name:   spec.Name,
			Prompt: spec.Prompt + "\n\n" + guide,
		}
	}
	return out
}

func (c *Catalog) validate() error {
	if len(c.Marketing) == 0 {
		return fmt.Errorf("marketing set is empty")
	}
	if len(c.Process) == 0 {
		return fmt.Errorf("process set is empty")
	}
	if c.Hero.Name == "" || c.Hero.Prompt == "" {
		return fmt.Errorf("hero entry is incomplete")
	}

	for _, set := range []struct {
		label string
		specs []PromptSpec
	}{
		{"marketing", c.Marketing},
		{"process", c.Process},
	} {
		seen := make(map[string]struct{}, len(set.specs))
		for _, spec := range set.specs {
			if spec.Name == "" {
				return fmt.Errorf("%s set has an entry without a name", set.label)
			}
			if spec.Prompt == "" {
				return fmt.Errorf("%s entry %q has an empty prompt", set.label, spec.Name)
			}
			if _, dup := seen[spec.Name]; dup {
				return fmt.Errorf("%s entry %q is duplicated", set.label, spec.Name)
			}
			seen[spec.Name] = struct{}{}
		}
	}

	return nil
}
