package chat

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"sre-dashboard/internal/domain"
)

//go:embed intents.yaml
var defaultIntentsYAML []byte

// Intent maps a set of keywords to a SQL template.
type Intent struct {
	Name string   `yaml:"name"`
	All  []string `yaml:"all"`
	Any  []string `yaml:"any"`
	SQL  string   `yaml:"sql"`
}

type intentFile struct {
	Intents []Intent `yaml:"intents"`
}

// Matches reports whether the normalized message satisfies the intent.
func (i Intent) Matches(normalized string) bool {
	for _, kw := range i.All {
		if !strings.Contains(normalized, kw) {
			return false
		}
	}
	if len(i.Any) == 0 {
		return len(i.All) > 0
	}
	for _, kw := range i.Any {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// Render substitutes the table namespace into the SQL template.
func (i Intent) Render(tables domain.TableRef) string {
	return strings.NewReplacer(
		"{catalog}", tables.Catalog,
		"{schema}", tables.Schema,
	).Replace(strings.TrimSpace(i.SQL))
}

// DefaultIntents returns the built-in intents.
func DefaultIntents() []Intent {
	intents, err := ParseIntents(defaultIntentsYAML)
	if err != nil {
		panic(fmt.Sprintf("chat: built-in intents: %v", err))
	}
	return intents
}

// LoadIntents reads intents from a YAML file.
func LoadIntents(path string) ([]Intent, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read intents %s: %w", path, err)
	}
	intents, err := ParseIntents(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return intents, nil
}

// ParseIntents decodes and validates an intents document. Keywords are
// lowercased so matching is case-insensitive.
func ParseIntents(data []byte) ([]Intent, error) {
	var f intentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}
	if len(f.Intents) == 0 {
		return nil, fmt.Errorf("parse intents: no intents defined")
	}
	for i := range f.Intents {
		in := &f.Intents[i]
		if strings.TrimSpace(in.SQL) == "" {
			return nil, fmt.Errorf("parse intents: intent %d (%s) has no sql", i, in.Name)
		}
		if len(in.All) == 0 && len(in.Any) == 0 {
			return nil, fmt.Errorf("parse intents: intent %d (%s) has no keywords", i, in.Name)
		}
		lowerAll(in.All)
		lowerAll(in.Any)
	}
	return f.Intents, nil
}

func lowerAll(words []string) {
	for i, w := range words {
		words[i] = strings.ToLower(strings.TrimSpace(w))
	}
}
