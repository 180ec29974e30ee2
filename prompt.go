package xlate

import (
	"fmt"
	"strings"
)

// Prompt represents a structured LLM prompt with consistent formatting.
// It enforces a canonical structure across both synapse types.
type Prompt struct {
	Task         string              // Required: what the LLM should do
	Input        string              // Required: the caller's instruction
	Context      string              // Optional: additional context
	Languages    []string            // Catalog listing for detection
	Code         string              // Source code under conversion
	CodeLanguage string              // Fence label for the code block, if known
	Examples     map[string][]string // Label->examples
	Schema       string              // Required: JSON schema for response
	Constraints  []string            // Rules and constraints
}

// Render converts the structured prompt to a string for the LLM.
// It enforces consistent ordering and formatting across all synapses.
func (p *Prompt) Render() string {
	var sections []string

	// Task is always first
	if p.Task != "" {
		sections = append(sections, "Task: "+p.Task)
	}

	// Input is always second
	if p.Input != "" {
		sections = append(sections, "Input: "+p.Input)
	}

	// Optional context
	if p.Context != "" {
		sections = append(sections, "Context: "+p.Context)
	}

	// Language catalog (for detection)
	if len(p.Languages) > 0 {
		langs := "Languages:\n"
		for i, l := range p.Languages {
			langs += fmt.Sprintf("  %d. %s\n", i+1, l)
		}
		sections = append(sections, strings.TrimSpace(langs))
	}

	// Code block, fenced so the model sees exact boundaries
	if p.Code != "" {
		sections = append(sections, "Code:\n```"+p.CodeLanguage+"\n"+p.Code+"\n```")
	}

	// Examples (if provided)
	if len(p.Examples) > 0 {
		examples := "Examples:\n"
		for label, exs := range p.Examples {
			if len(exs) > 0 {
				examples += fmt.Sprintf("  %s:\n", label)
				for _, ex := range exs {
					examples += fmt.Sprintf("    - %s\n", ex)
				}
			}
		}
		sections = append(sections, strings.TrimSpace(examples))
	}

	// Schema - always required
	if p.Schema != "" {
		sections = append(sections, "Return JSON:\n"+p.Schema)
	}

	// Constraints - always last
	if len(p.Constraints) > 0 {
		con := "Constraints:\n"
		for _, c := range p.Constraints {
			con += "- " + c + "\n"
		}
		sections = append(sections, strings.TrimSpace(con))
	}

	return strings.Join(sections, "\n\n")
}

// Validate checks if the prompt has required fields.
func (p *Prompt) Validate() error {
	if p.Task == "" {
		return fmt.Errorf("prompt missing required Task field")
	}
	if p.Input == "" && p.Code == "" {
		return fmt.Errorf("prompt missing required Input or Code field")
	}
	if p.Schema == "" {
		return fmt.Errorf("prompt missing required Schema field")
	}
	return nil
}
