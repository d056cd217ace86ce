package schema

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document class descriptors declared in a YAML file
type Document struct {
	Classes []*Class `yaml:"classes" validate:"dive,required"`

	byName map[string]*Class
}

// Class find a class of the document by name
func (d *Document) Class(name string) (*Class, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// Entities classes marked as entities, in declaration order
func (d *Document) Entities() []*Class {
	var entities []*Class
	for _, c := range d.Classes {
		if c.Entity {
			entities = append(entities, c)
		}
	}
	return entities
}

// UnmarshalYAML accepts access types in any case
func (a *Access) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	access, err := ParseAccess(s)
	if err != nil {
		return err
	}
	*a = access
	return nil
}

// LoadYAMLFile load class descriptors from a YAML file
func LoadYAMLFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class descriptors %s: %w", path, err)
	}
	return LoadYAML(data)
}

// LoadYAML parse class descriptors, link every class to the super class it extends
func LoadYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse class descriptors: %v", ErrInvalidDescriptor, err)
	}

	if err := validator.New().Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	doc.byName = make(map[string]*Class, len(doc.Classes))
	for _, c := range doc.Classes {
		if _, ok := doc.byName[c.Name]; ok {
			return nil, fmt.Errorf("%w: class %s declared twice", ErrInvalidDescriptor, c.Name)
		}
		doc.byName[c.Name] = c
		applyDefaults(c)
	}

	for _, c := range doc.Classes {
		if c.Extends == "" {
			continue
		}
		super, ok := doc.byName[c.Extends]
		if !ok {
			return nil, fmt.Errorf("%w: class %s extends unknown class %s", ErrInvalidDescriptor, c.Name, c.Extends)
		}
		c.Super = super
	}

	for _, c := range doc.Classes {
		seen := map[*Class]bool{}
		for s := c; s != nil; s = s.Super {
			if seen[s] {
				return nil, fmt.Errorf("%w: class %s extends itself", ErrInvalidDescriptor, c.Name)
			}
			seen[s] = true
		}
	}

	return &doc, nil
}

func applyDefaults(c *Class) {
	if c.SequenceGenerator != nil {
		c.SequenceGenerator.applyDefaults()
	}
	if c.TableGenerator != nil {
		c.TableGenerator.applyDefaults()
	}

	for _, members := range [][]*Member{c.Fields, c.Methods} {
		for _, m := range members {
			if m.SequenceGenerator != nil {
				m.SequenceGenerator.applyDefaults()
			}
			if m.TableGenerator != nil {
				m.TableGenerator.applyDefaults()
			}
		}
	}
}
