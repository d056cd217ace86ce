package id

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"gorm.io/entitymap/dialect"
)

// SequenceGenerator ids drawn from a database sequence. With an allocation size above one the
// sequence is expected to increment by that size, and the values in between are handed out locally.
type SequenceGenerator struct {
	dialect        dialect.Dialect
	sequence       string
	dbGroup        string
	allocationSize int64
	initialValue   int64

	mu   sync.Mutex
	db   *sql.DB
	next int64
	left int64
}

// NewSequenceGenerator creates a sequence generator, bound to its database at full startup
func NewSequenceGenerator(cfg Config) (Generator, error) {
	g := &SequenceGenerator{
		dialect:  cfg.Dialect,
		sequence: cfg.Properties.Get(ParamSequence, dialect.DefaultSequenceName),
		dbGroup:  cfg.dbGroup(),
	}

	if !strings.Contains(g.sequence, ".") {
		for _, qualifier := range []string{ParamSchema, ParamCatalog} {
			if q := cfg.Properties.Get(qualifier, ""); q != "" {
				g.sequence = q + "." + g.sequence
			}
		}
	}

	var err error
	if g.allocationSize, err = cfg.Properties.Int(ParamAllocationSize, 1); err != nil {
		return nil, err
	}
	if g.allocationSize < 1 {
		g.allocationSize = 1
	}
	if g.initialValue, err = cfg.Properties.Int(ParamInitialValue, 1); err != nil {
		return nil, err
	}

	cfg.onStarted(g.start)
	return g, nil
}

func (g *SequenceGenerator) start(ctx context.Context, env Env) error {
	db, err := env.DB(g.dbGroup)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.db = db
	g.mu.Unlock()
	return nil
}

func (g *SequenceGenerator) Key() string {
	return KeySequence
}

// SequenceName the qualified sequence name
func (g *SequenceGenerator) SequenceName() string {
	return g.sequence
}

func (g *SequenceGenerator) AllocationSize() int64 {
	return g.allocationSize
}

func (g *SequenceGenerator) InitialValue() int64 {
	return g.initialValue
}

func (g *SequenceGenerator) InsertBefore() bool {
	return true
}

func (g *SequenceGenerator) Generate(ctx context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.left > 0 {
		g.left--
		g.next++
		return g.next, nil
	}

	if g.db == nil {
		return 0, fmt.Errorf("%w: sequence %s", ErrNotStarted, g.sequence)
	}
	if g.dialect == nil {
		return 0, fmt.Errorf("%w: no dialect for sequence %s", ErrUnsupported, g.sequence)
	}

	query := g.dialect.SequenceNextValSQL(g.sequence)
	if query == "" {
		return 0, fmt.Errorf("%w: %s has no sequences", ErrUnsupported, g.dialect.Name())
	}

	var value int64
	if err := g.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to fetch next value of sequence %s: %w", g.sequence, err)
	}

	g.next, g.left = value, g.allocationSize-1
	return value, nil
}

func (g *SequenceGenerator) PostInsert(result sql.Result) (int64, error) {
	return 0, fmt.Errorf("%w: %s ids are drawn before insert", ErrUnsupported, KeySequence)
}
