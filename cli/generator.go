package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gorm.io/entitymap/schema"
)

type FieldInfo struct {
	Name string
	Type string
}

// ParseFields parse attributes like name:string,email:string
func ParseFields(attr string) ([]FieldInfo, error) {
	var fields []FieldInfo
	for _, a := range strings.Split(attr, ",") {
		parts := strings.Split(strings.TrimSpace(a), ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("attribute format is invalid: %s", a)
		}
		fields = append(fields, FieldInfo{Name: parts[0], Type: parts[1]})
	}
	return fields, nil
}

// NewEntity describe an entity keyed by an AUTO generated id property, followed by fields
func NewEntity(name, business string, fields []FieldInfo) (*schema.Class, error) {
	if name == "" || len(fields) == 0 {
		return nil, fmt.Errorf("class name and fields must be provided")
	}
	if business == "" {
		business = strings.ToLower(name)
	}

	class := &schema.Class{
		Name:     name,
		Entity:   true,
		Business: &schema.Business{Name: business},
		Fields:   []*schema.Member{{Name: "id", TypeName: "int64", ID: true}},
	}
	for _, f := range fields {
		if f.Name == "id" {
			return nil, fmt.Errorf("field id of %s is reserved for the primary key", name)
		}
		class.Fields = append(class.Fields, &schema.Member{Name: f.Name, TypeName: f.Type})
	}
	return class, nil
}

// WriteDescriptors write classes into a YAML descriptor document at path
func WriteDescriptors(path string, classes ...*schema.Class) error {
	data, err := yaml.Marshal(&schema.Document{Classes: classes})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
