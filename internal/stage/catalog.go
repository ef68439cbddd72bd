// ABOUTME: Named stage sequences loaded from YAML
// ABOUTME: Ships a built-in sales pipeline in English and Russian
package stage

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog maps sequence names to stage sequences
type Catalog struct {
	Sequences map[string]Sequence `yaml:"sequences"`
}

// DefaultCatalog returns the built-in sequences
func DefaultCatalog() *Catalog {
	return &Catalog{
		Sequences: map[string]Sequence{
			"sales": {
				"First contact",
				"Needs discovery",
				"Presentation",
				"Objection handling",
				"Closing the deal",
				"After-sales service",
			},
			"sales-ru": {
				"Первый контакт",
				"Выявление потребностей",
				"Презентация",
				"Обработка возражений",
				"Закрытие сделки",
				"Постпродажное обслуживание",
			},
		},
	}
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(c.Sequences) == 0 {
		return nil, fmt.Errorf("catalog defines no sequences")
	}
	for name, seq := range c.Sequences {
		if err := seq.Validate(); err != nil {
			return nil, fmt.Errorf("sequence %q: %w", name, err)
		}
	}
	return &c, nil
}

// LoadCatalog reads a YAML catalog from path
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Sequence returns the named sequence
func (c *Catalog) Sequence(name string) (Sequence, error) {
	seq, ok := c.Sequences[name]
	if !ok {
		return nil, fmt.Errorf("no stage sequence named %q", name)
	}
	return seq, nil
}

// Names lists sequence names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Sequences))
	for name := range c.Sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
