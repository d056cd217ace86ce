package entitymap

import (
	"sync"

	"gorm.io/entitymap/model"
)

// DataLoaderFactory creates the loader of one column
type DataLoaderFactory func(m *Mapping, t *model.Table, propName, colName string) (model.ValueLoader, error)

// DataLoaderManager keeps the loaders of compiled columns
type DataLoaderManager struct {
	mu      sync.RWMutex
	loaders []model.ValueLoader
}

// Add register a configured loader
func (m *DataLoaderManager) Add(loader model.ValueLoader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders = append(m.loaders, loader)
}

// Loaders registered loaders in registration order
func (m *DataLoaderManager) Loaders() []model.ValueLoader {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ValueLoader(nil), m.loaders...)
}
