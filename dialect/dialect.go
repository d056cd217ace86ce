package dialect

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownDialect no dialect is registered under the name
var ErrUnknownDialect = errors.New("unknown dialect")

// DefaultSequenceName sequence used when a sequence generator doesn't name one
const DefaultSequenceName = "entitymap_sequence"

// Dialect the SQL platform facts the mapping builder and id generators consult
type Dialect interface {
	Name() string
	// NativeIDGenerator key of the id generator used for the AUTO strategy
	NativeIDGenerator() string
	BindVar(i int) string
	Quote(key string) string
	SupportLastInsertID() bool
	// SequenceNextValSQL query selecting the next value of sequence, empty if sequences are unsupported
	SequenceNextValSQL(sequence string) string
}

var (
	mu       sync.RWMutex
	dialects = map[string]Dialect{}
)

func init() {
	for _, d := range []Dialect{&mysql{}, &postgres{}, &sqlite3{}, &mssql{}, &oracle{}} {
		Register(d)
	}
	RegisterAlias("postgresql", "postgres")
	RegisterAlias("pgx", "postgres")
	RegisterAlias("sqlite", "sqlite3")
	RegisterAlias("sqlserver", "mssql")
}

// Register register d under its name, replacing any dialect with the same name
func Register(d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[strings.ToLower(d.Name())] = d
}

// RegisterAlias make alias resolve to the dialect registered as name
func RegisterAlias(alias, name string) {
	mu.Lock()
	defer mu.Unlock()
	if d, ok := dialects[strings.ToLower(name)]; ok {
		dialects[strings.ToLower(alias)] = d
	}
}

// Get find the dialect registered under name
func Get(name string) (Dialect, error) {
	mu.RLock()
	defer mu.RUnlock()
	if d, ok := dialects[strings.ToLower(name)]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
}

// Names registered dialect names, aliases included
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	return names
}
