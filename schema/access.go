package schema

import (
	"strings"

	"gorm.io/entitymap/utils"
)

// ResolveAccess decide how one class level is mapped. An explicit access type wins, then the side
// declaring the primary key, then the side declaring columns; fields are the default.
func ResolveAccess(c *Class) Access {
	if c.Access != AccessNone {
		return c.Access
	}

	var columnOnField, columnOnMethod bool
	for _, f := range c.Fields {
		if f.Transient {
			continue
		}
		if f.ID {
			return AccessField
		}
		if f.Column != nil {
			columnOnField = true
		}
	}

	for _, m := range c.Methods {
		if m.Transient || m.Private || m.Static {
			continue
		}
		if m.ID {
			return AccessProperty
		}
		if m.Column != nil {
			columnOnMethod = true
		}
	}

	switch {
	case columnOnField:
		return AccessField
	case columnOnMethod:
		return AccessProperty
	}
	return AccessField
}

// Property a persistent member of a class level and the property name it maps
type Property struct {
	Name   string
	Member *Member
}

// Properties the persistent members of one class level under its resolved access type
func Properties(c *Class) []Property {
	var properties []Property

	if ResolveAccess(c) == AccessField {
		for _, f := range c.Fields {
			if f.Transient || f.TransientModifier || f.Static {
				continue
			}
			properties = append(properties, Property{Name: f.Name, Member: f})
		}
		return properties
	}

	for _, m := range c.Methods {
		if m.Transient || m.TransientModifier || m.Static || m.Private {
			continue
		}
		if name, ok := PropertyName(m); ok {
			properties = append(properties, Property{Name: name, Member: m})
		}
	}
	return properties
}

// PropertyName the property read by an accessor method: GetX and getX read x, IsX and isX read x
// only when returning a bool
func PropertyName(m *Member) (string, bool) {
	if name, ok := trimAccessorPrefix(m.Name, "get"); ok {
		return utils.Decapitalize(name), true
	}
	if name, ok := trimAccessorPrefix(m.Name, "is"); ok && m.ReturnsBool() {
		return utils.Decapitalize(name), true
	}
	return "", false
}

func trimAccessorPrefix(name, prefix string) (string, bool) {
	for _, p := range []string{prefix, strings.ToUpper(prefix[:1]) + prefix[1:]} {
		if len(name) > len(p) && strings.HasPrefix(name, p) {
			return name[len(p):], true
		}
	}
	return "", false
}
