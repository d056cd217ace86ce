package entitymap

import (
	"sync"

	"gorm.io/entitymap/model"
)

// ShadowViewFactory creates the shadow view of a table
type ShadowViewFactory func(tableName string) (model.TableView, error)

// CustomViewFactory creates a shadow view that also resolves the columns of each business object
type CustomViewFactory func(tableName string, m *Mapping) (model.TableView, error)

// ShadowViewManager keeps the shadow views of compiled tables
type ShadowViewManager struct {
	mu    sync.RWMutex
	views []model.TableView
}

// Add register a configured shadow view
func (m *ShadowViewManager) Add(view model.TableView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, view)
}

// Views registered shadow views in registration order
func (m *ShadowViewManager) Views() []model.TableView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.TableView(nil), m.views...)
}

// ByTableName get the shadow view configured for a table, nil if none
func (m *ShadowViewManager) ByTableName(tableName string) model.TableView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.views {
		if v.ConfiguredTableName() == tableName {
			return v
		}
	}
	return nil
}
