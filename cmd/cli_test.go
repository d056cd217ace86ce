package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedGenerators = `
classes:
  - name: Holder
    mappedSuperclass: true
    sequenceGenerator: {name: seq_shared, sequenceName: seq_shared}
  - name: Order
    entity: true
    business: {name: order}
    fields:
      - name: id
        type: int64
        id: true
        generatedValue: {strategy: SEQUENCE, generator: seq_shared}
`

func TestCompile_GeneratorsOfWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sharedGenerators), 0o600))

	assert.NoError(t, compile("", "postgres", path, "", 0))
	assert.NoError(t, compile("", "postgres", path, "Order", 0))

	err := compile("", "postgres", path, "Missing", 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "class Missing not found")
}
