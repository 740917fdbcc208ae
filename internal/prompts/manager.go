package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

const (
	ScoreAnswer = "score_answer"
	Summary     = "summary"
)

type PromptProvider interface {
	BuildPrompt(name string, data interface{}) (string, error)
	GetTemplates() map[string]*template.Template
}

type PromptManager struct {
	templates map[string]*template.Template
}

// loaded prompt template
type PromptTemplate struct {
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{templates: make(map[string]*template.Template)}
	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

// builds the named prompt with the given data
func (pm *PromptManager) BuildPrompt(name string, data interface{}) (string, error) {
	tmpl, exists := pm.templates[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (pm *PromptManager) GetTemplates() map[string]*template.Template {
	return pm.templates
}

func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		tmpl, err := template.New(name).Option("missingkey=error").Parse(promptTemplate.Template)
		if err != nil {
			return fmt.Errorf("failed to compile template %s: %w", name, err)
		}
		pm.templates[name] = tmpl
	}

	return nil
}

var _ PromptProvider = (*PromptManager)(nil)
