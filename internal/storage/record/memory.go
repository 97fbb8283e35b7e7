// internal/storage/record/memory.go
package record

import (
	"sync"

	"github.com/latticefin/lattice/internal/core"
)

// relKey is the uniqueness key of a relationship row.
type relKey struct {
	Source string
	Target string
	Type   string
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	Class  string
	Sector string
	Limit  int
	Offset int
}

// RelationshipFilter narrows relationship listings.
type RelationshipFilter struct {
	SourceID string
	TargetID string
	Type     string
}

// MemoryStore is an in-memory row store. It mirrors the relational layout:
// asset rows keyed by id, relationship rows unique on (source, target, type)
// with update-in-place upserts, an append-only event log.
type MemoryStore struct {
	mu sync.RWMutex

	assets     map[string]AssetRow
	assetOrder []string

	relationships []RelationshipRow
	relIndex      map[relKey]int

	events []EventRow
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assets:   make(map[string]AssetRow),
		relIndex: make(map[relKey]int),
	}
}

// UpsertAsset writes an asset row, replacing any row with the same id.
func (m *MemoryStore) UpsertAsset(row AssetRow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.assets[row.ID]; !exists {
		m.assetOrder = append(m.assetOrder, row.ID)
	}
	m.assets[row.ID] = row
}

// Asset returns the row with the given id.
func (m *MemoryStore) Asset(id string) (AssetRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.assets[id]
	if !ok {
		return AssetRow{}, core.ErrAssetNotFound
	}
	return row, nil
}

// Assets returns rows matching the filter, in insertion order.
func (m *MemoryStore) Assets(filter AssetFilter) []AssetRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []AssetRow
	for _, id := range m.assetOrder {
		row := m.assets[id]
		if filter.Class != "" && row.AssetClass != filter.Class {
			continue
		}
		if filter.Sector != "" && row.Sector != filter.Sector {
			continue
		}
		result = append(result, row)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []AssetRow{}
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result
}

// UpsertRelationship writes a relationship row. A row with the same
// (source, target, type) key is updated in place; there is never more than
// one row per key.
func (m *MemoryStore) UpsertRelationship(row RelationshipRow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := relKey{Source: row.SourceID, Target: row.TargetID, Type: row.RelationshipType}
	if i, exists := m.relIndex[key]; exists {
		m.relationships[i] = row
		return
	}
	m.relIndex[key] = len(m.relationships)
	m.relationships = append(m.relationships, row)
}

// Relationships returns rows matching the filter, in insertion order.
func (m *MemoryStore) Relationships(filter RelationshipFilter) []RelationshipRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []RelationshipRow
	for _, row := range m.relationships {
		if filter.SourceID != "" && row.SourceID != filter.SourceID {
			continue
		}
		if filter.TargetID != "" && row.TargetID != filter.TargetID {
			continue
		}
		if filter.Type != "" && row.RelationshipType != filter.Type {
			continue
		}
		result = append(result, row)
	}
	return result
}

// AppendEvent appends an event row to the log.
func (m *MemoryStore) AppendEvent(row EventRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, row)
}

// Events returns a copy of the event log.
func (m *MemoryStore) Events() []EventRow {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]EventRow(nil), m.events...)
}
