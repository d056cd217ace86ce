package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gorm.io/entitymap"
	"gorm.io/entitymap/dialect"
)

// GenerateConfig write a context config with a default db group of the dialect
func GenerateConfig(path, dialectName, dsn string) error {
	if _, err := dialect.Get(dialectName); err != nil {
		return fmt.Errorf("unsupported db type: %s", dialectName)
	}

	config := entitymap.Config{
		DefaultDBGroup: entitymap.DefaultDBGroupName,
		LogLevel:       "warn",
		DBGroups: []entitymap.DBGroupConfig{
			{Name: entitymap.DefaultDBGroupName, Dialect: dialectName, DSN: dsn},
		},
	}
	if err := config.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(&config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
