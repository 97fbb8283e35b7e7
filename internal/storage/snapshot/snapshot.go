// Package snapshot serializes a graph to a versioned JSON document of flat
// rows and back, persisted through an archive.Storage backend.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/latticefin/lattice/internal/core"
	"github.com/latticefin/lattice/internal/graph"
	"github.com/latticefin/lattice/internal/storage/archive"
	"github.com/latticefin/lattice/internal/storage/record"
)

// Version is bumped on incompatible document changes.
const Version = 1

// Snapshot is one persisted graph state.
type Snapshot struct {
	ID            string                   `json:"id"`
	Version       int                      `json:"version"`
	CreatedAt     time.Time                `json:"created_at"`
	Assets        []record.AssetRow        `json:"assets"`
	Relationships []record.RelationshipRow `json:"relationships"`
	Events        []record.EventRow        `json:"events"`
}

// Capture flattens the graph into a snapshot document. Relationship rows go
// through the record store's (source, target, type) upsert, so edges that
// differ only in strength collapse to the last one seen. The in-memory graph
// keeps such edges separate; the narrowing on persist is intentional.
func Capture(g *graph.Graph) Snapshot {
	store := record.NewMemoryStore()

	for _, a := range g.Assets() {
		store.UpsertAsset(record.AssetToRow(a))
	}
	for _, rel := range g.Relationships() {
		store.UpsertRelationship(record.RelationshipRow{
			SourceID:         rel.SourceID,
			TargetID:         rel.TargetID,
			RelationshipType: rel.Type,
			Strength:         rel.Strength,
		})
	}
	for _, ev := range g.Events() {
		store.AppendEvent(record.EventToRow(ev))
	}

	return Snapshot{
		ID:            uuid.NewString(),
		Version:       Version,
		CreatedAt:     time.Now().UTC(),
		Assets:        store.Assets(record.AssetFilter{}),
		Relationships: store.Relationships(record.RelationshipFilter{}),
		Events:        store.Events(),
	}
}

// Restore rebuilds a graph from a snapshot. Rows revalidate through the core
// constructors; a corrupt row fails the whole restore. Events are replayed
// first so their derived edges exist, then the relationship rows fill in
// everything else (identical triples de-duplicate).
func Restore(s Snapshot) (*graph.Graph, error) {
	g := graph.New()

	for _, row := range s.Assets {
		a, err := record.RowToAsset(row)
		if err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		g.AddAsset(a)
	}
	for _, row := range s.Events {
		ev, err := record.RowToEvent(row)
		if err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		g.AddRegulatoryEvent(ev)
	}
	for _, row := range s.Relationships {
		g.AddRelationship(row.SourceID, row.TargetID, row.RelationshipType, row.Strength, false)
	}

	return g, nil
}

func objectPath(name string) string {
	return name + ".json"
}

// Save writes the snapshot under its name (defaulting to the snapshot id).
func Save(ctx context.Context, storage archive.Storage, s Snapshot, name string) error {
	if name == "" {
		name = s.ID
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	if err := storage.Write(ctx, objectPath(name), data); err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	return nil
}

// Load reads a snapshot by name.
func Load(ctx context.Context, storage archive.Storage, name string) (Snapshot, error) {
	exists, err := storage.Exists(ctx, objectPath(name))
	if err != nil {
		return Snapshot{}, core.WrapError(core.ErrStorageFailed, err)
	}
	if !exists {
		return Snapshot{}, core.ErrSnapshotNotFound
	}

	data, err := storage.Read(ctx, objectPath(name))
	if err != nil {
		return Snapshot{}, core.WrapError(core.ErrStorageFailed, err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, core.WrapError(core.ErrStorageFailed, err)
	}
	return s, nil
}
