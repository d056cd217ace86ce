package id

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/entitymap/dialect"
)

// defaults of the hilo.multi backing table
const (
	DefaultHiloTable    = "entitymap_hilo"
	DefaultPKColumnName = "pk_name"
	DefaultValueColumn  = "next_hi"
	DefaultMaxLo        = 50
)

// maxCASRetries attempts to reserve a hi before giving up
const maxCASRetries = 16

// HiloMultiGenerator hi/lo ids sharing one backing table between mappings. Each mapping owns the row
// whose key column equals its pk_column_value; a hi is reserved by a compare-and-set update of that row
// and yields max_lo+1 ids without another round trip.
type HiloMultiGenerator struct {
	dialect      dialect.Dialect
	dbGroup      string
	table        string
	pkColumn     string
	pkValue      string
	valueColumn  string
	maxLo        int64
	initialValue int64

	mu sync.Mutex
	db *sql.DB
	hi int64
	lo int64
}

// NewHiloMultiGenerator creates a hilo.multi generator, bound to its database at full startup
func NewHiloMultiGenerator(cfg Config) (Generator, error) {
	p := cfg.Properties
	g := &HiloMultiGenerator{
		dialect:     cfg.Dialect,
		dbGroup:     cfg.dbGroup(),
		pkColumn:    p.Get(ParamPKColumnName, DefaultPKColumnName),
		valueColumn: p.Get(ParamColumn, DefaultValueColumn),
	}

	var names []string
	for _, name := range []string{p.Get(ParamCatalog, ""), p.Get(ParamSchema, ""), p.Get(ParamTable, DefaultHiloTable)} {
		if name != "" {
			names = append(names, name)
		}
	}
	g.table = strings.Join(names, ".")

	g.pkValue = p.Get(ParamPKColumnValue, "")
	if g.pkValue == "" && cfg.Mapping != nil {
		g.pkValue = cfg.Mapping.TableName()
	}

	var err error
	if g.maxLo, err = p.Int(ParamMaxLo, DefaultMaxLo); err != nil {
		return nil, err
	}
	if g.maxLo < 1 {
		g.maxLo = DefaultMaxLo
	}
	if g.initialValue, err = p.Int(ParamInitialValue, 0); err != nil {
		return nil, err
	}
	g.lo = g.maxLo + 1

	cfg.onStarted(g.start)
	return g, nil
}

func (g *HiloMultiGenerator) start(ctx context.Context, env Env) error {
	db, err := env.DB(g.dbGroup)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.db = db
	g.mu.Unlock()
	return nil
}

func (g *HiloMultiGenerator) Key() string {
	return KeyHiloMulti
}

// TableName the qualified backing table
func (g *HiloMultiGenerator) TableName() string {
	return g.table
}

func (g *HiloMultiGenerator) MaxLo() int64 {
	return g.maxLo
}

func (g *HiloMultiGenerator) InsertBefore() bool {
	return true
}

func (g *HiloMultiGenerator) Generate(ctx context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lo > g.maxLo {
		hi, err := g.reserveHi(ctx)
		if err != nil {
			return 0, err
		}
		g.hi, g.lo = hi, 0
		if hi == 0 {
			g.lo = 1
		}
	}

	value := g.hi*(g.maxLo+1) + g.lo
	g.lo++
	return value, nil
}

func (g *HiloMultiGenerator) reserveHi(ctx context.Context) (int64, error) {
	if g.db == nil {
		return 0, fmt.Errorf("%w: hilo table %s", ErrNotStarted, g.table)
	}

	selectSQL, insertSQL, updateSQL := g.statements()
	for i := 0; i < maxCASRetries; i++ {
		var hi int64
		err := g.db.QueryRowContext(ctx, selectSQL, g.pkValue).Scan(&hi)
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := g.db.ExecContext(ctx, insertSQL, g.pkValue, g.initialValue); err != nil {
				return 0, fmt.Errorf("failed to initialize hilo row %s of %s: %w", g.pkValue, g.table, err)
			}
			continue
		} else if err != nil {
			return 0, fmt.Errorf("failed to read hilo row %s of %s: %w", g.pkValue, g.table, err)
		}

		result, err := g.db.ExecContext(ctx, updateSQL, hi+1, g.pkValue, hi)
		if err != nil {
			return 0, fmt.Errorf("failed to update hilo row %s of %s: %w", g.pkValue, g.table, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 1 {
			return hi, nil
		}
	}
	return 0, fmt.Errorf("failed to reserve hi of row %s in %s after %d attempts", g.pkValue, g.table, maxCASRetries)
}

func (g *HiloMultiGenerator) statements() (selectSQL, insertSQL, updateSQL string) {
	quote, bindVar := func(s string) string { return s }, func(i int) string { return "?" }
	if g.dialect != nil {
		quote, bindVar = g.dialect.Quote, g.dialect.BindVar
	}

	pk, col := quote(g.pkColumn), quote(g.valueColumn)
	selectSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", col, g.table, pk, bindVar(1))
	insertSQL = fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (%s, %s)", g.table, pk, col, bindVar(1), bindVar(2))
	updateSQL = fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s AND %s = %s", g.table, col, bindVar(1), pk, bindVar(2), col, bindVar(3))
	return
}

func (g *HiloMultiGenerator) PostInsert(result sql.Result) (int64, error) {
	return 0, fmt.Errorf("%w: %s ids are drawn before insert", ErrUnsupported, KeyHiloMulti)
}
