package entitymap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"gorm.io/entitymap/dialect"
	"gorm.io/entitymap/logger"
	"gorm.io/entitymap/schema"
)

// DefaultDBGroupName the db group of businesses that don't name one
const DefaultDBGroupName = "default"

// Config entitymap config
type Config struct {
	// DefaultDBGroup db group of businesses that don't name one, "default" if empty
	DefaultDBGroup string `yaml:"defaultDBGroup" toml:"defaultDBGroup"`
	// DBGroups the databases businesses are stored in
	DBGroups []DBGroupConfig `yaml:"dbGroups" toml:"dbGroups" validate:"dive"`
	// Naming default names of tables and columns, class and property names are kept when empty
	Naming NamingConfig `yaml:"naming" toml:"naming"`
	// LogLevel one of silent, error, warn, info, debug
	LogLevel string `yaml:"logLevel" toml:"logLevel" validate:"omitempty,oneof=silent error warn info debug"`

	// NamingStrategy tables, columns naming strategy, overrides Naming
	NamingStrategy schema.Namer `yaml:"-" toml:"-" validate:"-"`
	// Logger
	Logger logger.Interface `yaml:"-" toml:"-" validate:"-"`
}

// DBGroupConfig a db group and how to connect to it
type DBGroupConfig struct {
	Name    string `yaml:"name" toml:"name" validate:"required"`
	Dialect string `yaml:"dialect" toml:"dialect" validate:"required,dialect"`
	// Driver database/sql driver name, the dialect name if empty
	Driver string `yaml:"driver" toml:"driver"`
	// DSN connected on Open, the group has no database if empty
	DSN string `yaml:"dsn" toml:"dsn"`
}

// NamingConfig configures schema.NamingStrategy
type NamingConfig struct {
	Snake         bool   `yaml:"snake" toml:"snake"`
	TablePrefix   string `yaml:"tablePrefix" toml:"tablePrefix"`
	SingularTable bool   `yaml:"singularTable" toml:"singularTable"`
}

var logLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
	"debug":  logger.Debug,
}

// LoadConfig load config from a YAML or TOML file, by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	case ".toml":
		_, err = toml.Decode(string(data), &config)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate check db groups are named uniquely with known dialects
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("dialect", func(fl validator.FieldLevel) bool {
		_, err := dialect.Get(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	names := map[string]bool{}
	for _, group := range config.DBGroups {
		if names[group.Name] {
			return fmt.Errorf("%w: db group %s declared twice", ErrInvalidConfig, group.Name)
		}
		names[group.Name] = true
	}
	return nil
}

func (config *Config) namer() schema.Namer {
	if config.NamingStrategy != nil {
		return config.NamingStrategy
	}
	if config.Naming.Snake {
		return schema.NamingStrategy{TablePrefix: config.Naming.TablePrefix, SingularTable: config.Naming.SingularTable}
	}
	return schema.VerbatimNamer{}
}

func (config *Config) logger() logger.Interface {
	l := config.Logger
	if l == nil {
		l = logger.Default
	}
	if level, ok := logLevels[strings.ToLower(config.LogLevel)]; ok {
		l = l.LogMode(level)
	}
	return l
}
