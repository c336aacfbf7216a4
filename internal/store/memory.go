package store

import "context"

// MemoryStore is an in-memory TabularStore used by tests and dry runs.
type MemoryStore struct {
	Tabs map[string][][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Tabs: make(map[string][][]string)}
}

// GetAllRows returns every row of a tab including the header.
func (m *MemoryStore) GetAllRows(_ context.Context, tab string) ([][]string, error) {
	rows, ok := m.Tabs[tab]
	if !ok {
		return nil, nil
	}
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

// EnsureTab creates the tab when absent.
func (m *MemoryStore) EnsureTab(_ context.Context, tab string) error {
	if _, ok := m.Tabs[tab]; !ok {
		m.Tabs[tab] = nil
	}
	return nil
}

// Clear removes all rows from a tab.
func (m *MemoryStore) Clear(_ context.Context, tab string) error {
	if _, ok := m.Tabs[tab]; ok {
		m.Tabs[tab] = nil
	}
	return nil
}

// WriteHeader sets row 1 of a tab.
func (m *MemoryStore) WriteHeader(_ context.Context, tab string, header []string) error {
	rows := m.Tabs[tab]
	if len(rows) == 0 {
		m.Tabs[tab] = [][]string{header}
		return nil
	}
	rows[0] = header
	return nil
}

// AppendRows appends after the last row of a tab.
func (m *MemoryStore) AppendRows(_ context.Context, tab string, rows [][]string) error {
	m.Tabs[tab] = append(m.Tabs[tab], rows...)
	return nil
}
