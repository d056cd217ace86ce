package id

import (
	"context"
	"database/sql"
	"fmt"
)

// IdentityGenerator ids assigned by the database on insert
type IdentityGenerator struct{}

// NewIdentityGenerator creates an identity generator
func NewIdentityGenerator(cfg Config) (Generator, error) {
	return &IdentityGenerator{}, nil
}

func (g *IdentityGenerator) Key() string {
	return KeyIdentity
}

func (g *IdentityGenerator) InsertBefore() bool {
	return false
}

func (g *IdentityGenerator) Generate(ctx context.Context) (int64, error) {
	return 0, fmt.Errorf("%w: %s ids are assigned by the database", ErrUnsupported, KeyIdentity)
}

func (g *IdentityGenerator) PostInsert(result sql.Result) (int64, error) {
	return result.LastInsertId()
}
