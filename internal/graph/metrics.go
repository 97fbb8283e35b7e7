package graph

import (
	"sort"

	"github.com/latticefin/lattice/internal/core"
)

// Metrics is the fixed-shape summary of the graph's current state. Counts are
// over directed edges, so a bidirectional pair contributes two entries.
type Metrics struct {
	TotalAssets                 int                     `json:"total_assets"`
	TotalRelationships          int                     `json:"total_relationships"`
	AssetClassDistribution      map[core.AssetClass]int `json:"asset_class_distribution"`
	RelationshipDistribution    map[string]int          `json:"relationship_distribution"`
	AverageRelationshipStrength float64                 `json:"average_relationship_strength"`
	TopRelationships            []Relationship          `json:"top_relationships"`
	RelationshipDensity         float64                 `json:"relationship_density"`
	RegulatoryEventCount        int                     `json:"regulatory_event_count"`
}

const topRelationshipCount = 5

// CalculateMetrics computes the summary statistics over the current state.
func (g *Graph) CalculateMetrics() Metrics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	m := Metrics{
		TotalAssets:              len(g.order),
		AssetClassDistribution:   make(map[core.AssetClass]int),
		RelationshipDistribution: make(map[string]int),
		RegulatoryEventCount:     len(g.events),
	}

	for _, id := range g.order {
		m.AssetClassDistribution[g.assets[id].Class]++
	}

	all := g.relationshipsLocked()
	var strengthSum float64
	for _, rel := range all {
		m.TotalRelationships++
		m.RelationshipDistribution[rel.Type]++
		strengthSum += rel.Strength
	}

	if m.TotalRelationships > 0 {
		m.AverageRelationshipStrength = strengthSum / float64(m.TotalRelationships)
	}

	// Strongest first; stable so ties keep insertion order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Strength > all[j].Strength
	})
	if len(all) > topRelationshipCount {
		all = all[:topRelationshipCount]
	}
	m.TopRelationships = all

	// Density over assets squared, floored at 1 to keep the empty graph at 0.
	base := m.TotalAssets
	if base < 1 {
		base = 1
	}
	m.RelationshipDensity = float64(m.TotalRelationships) / float64(base*base) * 100

	return m
}
