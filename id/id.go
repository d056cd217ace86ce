package id

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/entitymap/dialect"
)

var (
	// ErrUnknownGenerationType the generation strategy is none of AUTO, IDENTITY, SEQUENCE, TABLE
	ErrUnknownGenerationType = errors.New("unknown generation type")
	// ErrUnknownGenerator no generator factory is registered under the key
	ErrUnknownGenerator = errors.New("unknown id generator")
	// ErrInvalidProperty a generator property can't be parsed
	ErrInvalidProperty = errors.New("invalid id generator property")
	// ErrNotStarted the generator needs a database but the context hasn't fully started
	ErrNotStarted = errors.New("id generator is not started")
	// ErrUnsupported the generator doesn't assign ids that way
	ErrUnsupported = errors.New("unsupported by id generator")
)

// GenerationType primary key generation strategy
type GenerationType int

const (
	Auto GenerationType = iota
	Identity
	Sequence
	Table
)

var generationTypeNames = [...]string{"AUTO", "IDENTITY", "SEQUENCE", "TABLE"}

func (t GenerationType) String() string {
	if t < Auto || t > Table {
		return fmt.Sprintf("GenerationType(%d)", int(t))
	}
	return generationTypeNames[t]
}

// ParseGenerationType parse a strategy name, empty means AUTO
func ParseGenerationType(s string) (GenerationType, error) {
	if s == "" {
		return Auto, nil
	}
	for idx, name := range generationTypeNames {
		if strings.EqualFold(s, name) {
			return GenerationType(idx), nil
		}
	}
	return Auto, fmt.Errorf("%w: %s", ErrUnknownGenerationType, s)
}

// generator keys
const (
	KeyIdentity  = "identity"
	KeySequence  = "sequence"
	KeyHiloMulti = "hilo.multi"
)

// generator properties
const (
	ParamSequence       = "sequence"
	ParamCatalog        = "catalog"
	ParamSchema         = "schema"
	ParamAllocationSize = "allocationSize"
	ParamInitialValue   = "initialValue"
	ParamTable          = "table"
	ParamPKColumnName   = "pk_column_name"
	ParamPKColumnValue  = "pk_column_value"
	ParamColumn         = "column"
	ParamMaxLo          = "max_lo"
	ParamDBGroup        = "db_group"
)

// Properties generator configuration bag
type Properties map[string]string

// Get returns the property, or def when it's missing or empty
func (p Properties) Get(key, def string) string {
	if v := p[key]; v != "" {
		return v
	}
	return def
}

// Int returns the property as an integer, or def when it's missing or empty
func (p Properties) Int(key string, def int64) (int64, error) {
	v := p[key]
	if v == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidProperty, key, v)
	}
	return i, nil
}

// Mapping the facts of the owning mapping a generator is configured with
type Mapping interface {
	TableName() string
	PKColumnName() string
	DBGroupName() string
}

// Env container resources available once it has fully started
type Env interface {
	DB(dbGroup string) (*sql.DB, error)
}

// StartFunc callback run when the container has fully started
type StartFunc func(ctx context.Context, env Env) error

// Registrar registers callbacks for the container's full startup
type Registrar interface {
	OnStarted(fn StartFunc)
}

// Config collaborators passed to a generator factory
type Config struct {
	Dialect    dialect.Dialect
	Mapping    Mapping
	Properties Properties
	// Startup receives the callback of generators that need the database, may be nil
	Startup Registrar
}

func (c Config) dbGroup() string {
	if g := c.Properties.Get(ParamDBGroup, ""); g != "" {
		return g
	}
	if c.Mapping != nil {
		return c.Mapping.DBGroupName()
	}
	return ""
}

func (c Config) onStarted(fn StartFunc) {
	if c.Startup != nil {
		c.Startup.OnStarted(fn)
	}
}

// Generator produces primary key values for one mapping
type Generator interface {
	Key() string
	// InsertBefore reports whether the id is drawn before the insert statement runs
	InsertBefore() bool
	// Generate draws the next id before an insert
	Generate(ctx context.Context) (int64, error)
	// PostInsert reads the id the database assigned during the insert
	PostInsert(result sql.Result) (int64, error)
}

// Factory creates a configured generator
type Factory func(cfg Config) (Generator, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		KeyIdentity:  NewIdentityGenerator,
		KeySequence:  NewSequenceGenerator,
		KeyHiloMulti: NewHiloMultiGenerator,
	}
)

// Register register a generator factory under key, replacing any factory with the same key
func Register(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[key] = factory
}

// New creates the generator registered under key
func New(key string, cfg Config) (Generator, error) {
	mu.RLock()
	factory, ok := factories[key]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, key)
	}
	if cfg.Properties == nil {
		cfg.Properties = Properties{}
	}
	return factory(cfg)
}
