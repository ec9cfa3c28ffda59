package navigation

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a single navigable page.
type Entry struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	Key   string `yaml:"key"`
}

// Section groups entries under a sidebar heading.
type Section struct {
	Title string  `yaml:"title"`
	Items []Entry `yaml:"items"`
}

type registryDocument struct {
	Sections []Section `yaml:"sections"`
}

//go:embed registry.yaml
var registryYAML []byte

var (
	registry []Section
	byKey    map[string]Entry
)

func init() {
	sections, err := parseRegistry(registryYAML)
	if err != nil {
		panic(fmt.Sprintf("navigation: %v", err))
	}
	registry = sections
	byKey = make(map[string]Entry)
	for _, section := range sections {
		for _, item := range section.Items {
			byKey[item.Key] = item
		}
	}
}

func parseRegistry(raw []byte) ([]Section, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("registry has no sections")
	}
	seen := make(map[string]struct{})
	for _, section := range doc.Sections {
		if strings.TrimSpace(section.Title) == "" {
			return nil, fmt.Errorf("section without title")
		}
		for _, item := range section.Items {
			key := strings.TrimSpace(item.Key)
			if key == "" || key != item.Key {
				return nil, fmt.Errorf("section %q: invalid key %q", section.Title, item.Key)
			}
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("duplicate key %q", key)
			}
			seen[key] = struct{}{}
		}
	}
	return doc.Sections, nil
}

// Sections returns a copy of the navigation registry in display order.
func Sections() []Section {
	return cloneSections(registry)
}

// Lookup returns the registry entry for key.
func Lookup(key string) (Entry, bool) {
	entry, ok := byKey[key]
	return entry, ok
}

func cloneSections(in []Section) []Section {
	out := make([]Section, len(in))
	for i, section := range in {
		out[i] = Section{
			Title: section.Title,
			Items: append([]Entry(nil), section.Items...),
		}
	}
	return out
}
