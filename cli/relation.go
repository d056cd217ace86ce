package cli

import (
	"fmt"
	"strings"

	"gorm.io/entitymap/schema"
)

// ParseOverrides parse attribute overrides like createdAt:created_time,updatedAt:updated_time
func ParseOverrides(overrides string) ([]schema.AttributeOverride, error) {
	var result []schema.AttributeOverride
	for _, o := range strings.Split(overrides, ",") {
		parts := strings.Split(strings.TrimSpace(o), ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("override format is invalid: %s", o)
		}
		result = append(result, schema.AttributeOverride{Name: parts[0], Column: parts[1]})
	}
	return result, nil
}

// AddOverrides append attribute overrides to class, an attribute overridden twice keeps the last column
func AddOverrides(class *schema.Class, overrides []schema.AttributeOverride) {
	for _, o := range overrides {
		replaced := false
		for i := range class.AttributeOverrides {
			if class.AttributeOverrides[i].Name == o.Name {
				class.AttributeOverrides[i].Column = o.Column
				replaced = true
			}
		}
		if !replaced {
			class.AttributeOverrides = append(class.AttributeOverrides, o)
		}
	}
}
