// Package graph holds the in-memory asset relationship graph: asset records,
// directed weighted edges with a reverse index, the regulatory event log, and
// the derived read models (metrics, deterministic 3D layout).
package graph

import (
	"fmt"
	"sync"

	"github.com/latticefin/lattice/internal/core"
)

// Edge is one directed link entry. In the outgoing index AssetID is the
// target of the edge; in the incoming index it is the source.
type Edge struct {
	AssetID  string  `json:"asset_id"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

// Graph is the aggregate root. All methods are safe for concurrent use; a
// single lock serializes mutations against readers.
type Graph struct {
	mu sync.RWMutex

	assets map[string]core.Asset
	order  []string // asset ids in insertion order

	outgoing    map[string][]Edge
	incoming    map[string][]Edge
	sourceOrder []string // outgoing keys in first-seen order

	events []core.RegulatoryEvent

	// Layout cache. nil means regenerate; see layout.go for the row-count
	// invalidation rule.
	positions [][3]float64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		assets:   make(map[string]core.Asset),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string][]Edge),
	}
}

// AddAsset inserts an asset, replacing any previous record with the same id.
// Edge lists for the id are initialized empty and the layout cache is
// invalidated.
func (g *Graph) AddAsset(a core.Asset) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.assets[a.ID]; !exists {
		g.order = append(g.order, a.ID)
	}
	g.assets[a.ID] = a
	g.ensureEdgeLists(a.ID)
	g.positions = nil
}

// ensureEdgeLists guarantees the id has entries in both edge indexes.
func (g *Graph) ensureEdgeLists(id string) {
	if _, ok := g.outgoing[id]; !ok {
		g.outgoing[id] = []Edge{}
		g.sourceOrder = append(g.sourceOrder, id)
	}
	if _, ok := g.incoming[id]; !ok {
		g.incoming[id] = []Edge{}
	}
}

// AddRelationship adds a directed edge from sourceID to targetID, plus the
// mirrored incoming entry. Strength is clamped to [0, 1]. The exact
// (target, type, strength) triple is stored at most once per source; a triple
// differing only in strength is a distinct edge. Neither endpoint has to be a
// known asset. With bidirectional set, the reverse edge pair is added too as
// an independent entry.
func (g *Graph) AddRelationship(sourceID, targetID, relType string, strength float64, bidirectional bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addRelationship(sourceID, targetID, relType, strength, bidirectional)
}

func (g *Graph) addRelationship(sourceID, targetID, relType string, strength float64, bidirectional bool) int {
	strength = clamp01(strength)

	added := g.addDirected(sourceID, targetID, relType, strength)
	if bidirectional {
		added += g.addDirected(targetID, sourceID, relType, strength)
	}
	return added
}

// addDirected appends one outgoing edge and its mirrored incoming entry,
// each de-duplicated against its own list. Returns 1 if the outgoing edge
// was new.
func (g *Graph) addDirected(sourceID, targetID, relType string, strength float64) int {
	g.ensureEdgeLists(sourceID)

	added := 0
	out := Edge{AssetID: targetID, Type: relType, Strength: strength}
	if !containsEdge(g.outgoing[sourceID], out) {
		g.outgoing[sourceID] = append(g.outgoing[sourceID], out)
		added = 1
	}

	in := Edge{AssetID: sourceID, Type: relType, Strength: strength}
	if !containsEdge(g.incoming[targetID], in) {
		g.incoming[targetID] = append(g.incoming[targetID], in)
	}

	return added
}

func containsEdge(list []Edge, e Edge) bool {
	for _, have := range list {
		if have == e {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// AddRegulatoryEvent appends the event and seeds one directed edge from the
// event's primary asset to each related asset, typed event_<event_type> with
// strength abs(impact_score). Related ids are not checked against the asset
// set.
func (g *Graph) AddRegulatoryEvent(ev core.RegulatoryEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.events = append(g.events, ev)

	strength := ev.ImpactScore
	if strength < 0 {
		strength = -strength
	}
	relType := fmt.Sprintf("event_%s", ev.EventType)
	for _, relatedID := range ev.RelatedAssets {
		g.addRelationship(ev.AssetID, relatedID, relType, strength, false)
	}
}

// BuildRelationships runs the inference rules over every unordered pair of
// assets, in insertion order with each pair visited once, and stores all
// inferred edges. Returns the number of new outgoing edges. Re-running is a
// no-op in the common case because identical triples are de-duplicated.
func (g *Graph) BuildRelationships() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	added := 0
	for i := 0; i < len(g.order); i++ {
		for j := i + 1; j < len(g.order); j++ {
			a := g.assets[g.order[i]]
			b := g.assets[g.order[j]]
			for _, rel := range Infer(a, b) {
				added += g.addRelationship(rel.SourceID, rel.TargetID, rel.Type, rel.Strength, rel.Bidirectional)
			}
		}
	}
	return added
}

// Asset returns the asset with the given id.
func (g *Graph) Asset(id string) (core.Asset, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.assets[id]
	return a, ok
}

// Assets returns all assets in insertion order.
func (g *Graph) Assets() []core.Asset {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]core.Asset, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.assets[id])
	}
	return result
}

// Outgoing returns a copy of the outgoing edge list for the id.
func (g *Graph) Outgoing(id string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.outgoing[id]...)
}

// Incoming returns a copy of the incoming edge list for the id.
func (g *Graph) Incoming(id string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.incoming[id]...)
}

// Events returns a copy of the regulatory event log.
func (g *Graph) Events() []core.RegulatoryEvent {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]core.RegulatoryEvent(nil), g.events...)
}

// Relationship is one directed edge with both endpoints spelled out, the
// flat form used by metrics, persistence and the API.
type Relationship struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

// Relationships returns every directed edge, sources in first-seen order and
// edges in insertion order per source.
func (g *Graph) Relationships() []Relationship {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.relationshipsLocked()
}

func (g *Graph) relationshipsLocked() []Relationship {
	var all []Relationship
	for _, sourceID := range g.sourceOrder {
		for _, e := range g.outgoing[sourceID] {
			all = append(all, Relationship{
				SourceID: sourceID,
				TargetID: e.AssetID,
				Type:     e.Type,
				Strength: e.Strength,
			})
		}
	}
	return all
}
