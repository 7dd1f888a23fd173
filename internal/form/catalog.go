// Package form holds the wizard core: the field catalog and section plan, the
// validation rules and the controller that mutates a session's FormState.
package form

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"travel_inquiry/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the static field table plus the ordered section plan.
type Catalog struct {
	order      []string
	fields     map[string]domain.FieldSpec
	sections   []domain.Section
	dependents map[string][]string
	required   map[string]struct{}
}

type catalogFile struct {
	Fields   []domain.FieldSpec `yaml:"fields"`
	Sections []domain.Section   `yaml:"sections"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// DefaultCatalog returns the embedded catalog. It panics if the embedded file is broken.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("form: embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{
		fields:     make(map[string]domain.FieldSpec, len(f.Fields)),
		sections:   f.Sections,
		dependents: map[string][]string{},
		required:   map[string]struct{}{},
	}
	for _, fs := range f.Fields {
		if fs.Name == "" {
			return nil, fmt.Errorf("catalog: field without name")
		}
		if _, dup := c.fields[fs.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate field %q", fs.Name)
		}
		switch fs.Kind {
		case domain.KindText, domain.KindDate, domain.KindSelect, domain.KindMultiSelect,
			domain.KindRoomSelector, domain.KindDisplay:
		default:
			return nil, fmt.Errorf("catalog: field %q has unknown kind %q", fs.Name, fs.Kind)
		}
		c.fields[fs.Name] = fs
		c.order = append(c.order, fs.Name)
	}
	for _, fs := range f.Fields {
		if fs.Parent != "" {
			if _, ok := c.fields[fs.Parent]; !ok {
				return nil, fmt.Errorf("catalog: field %q has unknown parent %q", fs.Name, fs.Parent)
			}
			c.dependents[fs.Parent] = append(c.dependents[fs.Parent], fs.Name)
		}
		if fs.RequiredWhen != nil {
			if _, ok := c.fields[fs.RequiredWhen.Field]; !ok {
				return nil, fmt.Errorf("catalog: field %q depends on unknown field %q", fs.Name, fs.RequiredWhen.Field)
			}
		}
	}
	if len(c.sections) == 0 {
		return nil, fmt.Errorf("catalog: no sections")
	}
	for _, s := range c.sections {
		for _, name := range s.Fields {
			if _, ok := c.fields[name]; !ok {
				return nil, fmt.Errorf("catalog: section %q lists unknown field %q", s.Title, name)
			}
		}
		for _, name := range s.Required {
			if !s.Has(name) {
				return nil, fmt.Errorf("catalog: section %q requires %q which it does not render", s.Title, name)
			}
			c.required[name] = struct{}{}
		}
	}
	return c, nil
}

// Spec returns the field's metadata. Unknown names get a plain text spec.
func (c *Catalog) Spec(name string) domain.FieldSpec {
	if fs, ok := c.fields[name]; ok {
		return fs
	}
	return domain.FieldSpec{Name: name, Kind: domain.KindText}
}

func (c *Catalog) Known(name string) bool {
	_, ok := c.fields[name]
	return ok
}

// Fields returns all field specs in declaration order.
func (c *Catalog) Fields() []domain.FieldSpec {
	out := make([]domain.FieldSpec, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.fields[n])
	}
	return out
}

func (c *Catalog) FieldCount() int { return len(c.order) }

func (c *Catalog) Sections() []domain.Section { return c.sections }

func (c *Catalog) SectionCount() int { return len(c.sections) }

// IsRequired reports whether any section marks name as mandatory.
func (c *Catalog) IsRequired(name string) bool {
	_, ok := c.required[name]
	return ok
}

// RequiredFields lists every mandatory field across all sections, in section order.
func (c *Catalog) RequiredFields() []string {
	var out []string
	for _, s := range c.sections {
		out = append(out, s.Required...)
	}
	return out
}

// Dependents returns fields conditionally tied to name (e.g. Other Hotel Category for Hotel Category).
func (c *Catalog) Dependents(name string) []string { return c.dependents[name] }

// Conditionals returns the fields that carry a required_when rule.
func (c *Catalog) Conditionals() []domain.FieldSpec {
	var out []domain.FieldSpec
	for _, n := range c.order {
		if fs := c.fields[n]; fs.RequiredWhen != nil {
			out = append(out, fs)
		}
	}
	return out
}
