package graph

import (
	"math/rand"

	"github.com/latticefin/lattice/internal/core"
)

// Layout generation constants. The fixed seed makes coordinates reproducible
// across calls and across processes, which keeps visual diffs stable between
// UI refreshes.
const (
	layoutSeed  = 42
	layoutScale = 10.0
)

// Class colors for visualization, with a neutral gray fallback.
var classColors = map[core.AssetClass]string{
	core.ClassEquity:      "#1f77b4", // blue
	core.ClassFixedIncome: "#2ca02c", // green
	core.ClassCommodity:   "#ff7f0e", // orange
	core.ClassCurrency:    "#d62728", // red
	core.ClassDerivative:  "#9467bd", // purple
}

const fallbackColor = "#7f7f7f"

// ColorFor returns the palette color for an asset class.
func ColorFor(class core.AssetClass) string {
	if c, ok := classColors[class]; ok {
		return c
	}
	return fallbackColor
}

// Node is one asset projected into layout space.
type Node struct {
	ID     string          `json:"id"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Class  core.AssetClass `json:"asset_class"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Z      float64         `json:"z"`
	Color  string          `json:"color"`
}

// VisualizationData is the read-only projection consumed by the dashboard.
// Edge coordinate slices are flat traces with nil break markers between
// segments so unrelated edges are not drawn connected.
type VisualizationData struct {
	Nodes []Node     `json:"nodes"`
	EdgeX []*float64 `json:"edge_x"`
	EdgeY []*float64 `json:"edge_y"`
	EdgeZ []*float64 `json:"edge_z"`
}

// Positions returns one 3D coordinate per asset, in asset insertion order.
// Coordinates are cached and regenerated only when no cache exists or the
// cached row count differs from the asset count. The cache is keyed by count
// alone: replacing assets without changing the count keeps the old
// coordinates.
func (g *Graph) Positions() [][3]float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][3]float64(nil), g.positionsLocked()...)
}

func (g *Graph) positionsLocked() [][3]float64 {
	n := len(g.order)
	if g.positions != nil && len(g.positions) == n {
		return g.positions
	}

	rng := rand.New(rand.NewSource(layoutSeed))
	positions := make([][3]float64, n)
	for i := range positions {
		positions[i] = [3]float64{
			rng.NormFloat64() * layoutScale,
			rng.NormFloat64() * layoutScale,
			rng.NormFloat64() * layoutScale,
		}
	}
	g.positions = positions
	return g.positions
}

// VisualizationData builds the node and edge projection from the cached
// layout. Edges whose endpoints are not both current assets are skipped.
func (g *Graph) VisualizationData() VisualizationData {
	g.mu.Lock()
	defer g.mu.Unlock()

	positions := g.positionsLocked()

	index := make(map[string]int, len(g.order))
	nodes := make([]Node, 0, len(g.order))
	for i, id := range g.order {
		index[id] = i
		a := g.assets[id]
		nodes = append(nodes, Node{
			ID:     a.ID,
			Symbol: a.Symbol,
			Name:   a.Name,
			Class:  a.Class,
			X:      positions[i][0],
			Y:      positions[i][1],
			Z:      positions[i][2],
			Color:  ColorFor(a.Class),
		})
	}

	data := VisualizationData{Nodes: nodes}
	for _, sourceID := range g.sourceOrder {
		from, ok := index[sourceID]
		if !ok {
			continue
		}
		for _, e := range g.outgoing[sourceID] {
			to, ok := index[e.AssetID]
			if !ok {
				continue
			}
			data.EdgeX = appendSegment(data.EdgeX, positions[from][0], positions[to][0])
			data.EdgeY = appendSegment(data.EdgeY, positions[from][1], positions[to][1])
			data.EdgeZ = appendSegment(data.EdgeZ, positions[from][2], positions[to][2])
		}
	}
	return data
}

// appendSegment adds one line segment followed by a nil break marker.
func appendSegment(trace []*float64, from, to float64) []*float64 {
	f, t := from, to
	return append(trace, &f, &t, nil)
}
