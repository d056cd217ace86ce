package entitymap

import "gorm.io/entitymap/schema"

// entityTable the business and table facts of a class hierarchy, a subclass overrides its ancestors
type entityTable struct {
	businessName  string
	interpreter   string
	tableName     string
	dbGroup       string
	shadow        string
	dynamicUpdate bool
}

func (t *entityTable) resolve(class *schema.Class) {
	if super := class.MappedSuper(); super != nil {
		t.resolve(super)
	}

	if business := class.Business; business != nil {
		if business.Name != "" {
			t.businessName = business.Name
		}
		if business.Interpreter != "" {
			t.interpreter = business.Interpreter
		}
	}

	if table := class.Table; table != nil {
		if table.Name != "" {
			t.tableName = table.Name
		}
		if table.DBGroup != "" {
			t.dbGroup = table.DBGroup
		}
		if table.Shadow != "" {
			t.shadow = table.Shadow
		}
		t.dynamicUpdate = table.DynamicUpdate
	}
}
