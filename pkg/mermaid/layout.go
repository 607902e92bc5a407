package mermaid

import "github.com/flowpad/flowpad/pkg/graph"

// Grid layout constants. Positions are a pure function of node order, so
// identical text always lays out identically.
const (
	layoutOriginX  = 100
	layoutOriginY  = 100
	layoutColPitch = 200
	layoutRowPitch = 150
	layoutColumns  = 3
)

// AssignPositions fills a deterministic grid position for every node that
// lacks one (which is all of them right after parsing). Node i lands in
// column i mod 3 and row i div 3. Nodes that already carry a position, for
// example ones moved in the visual editor, are left untouched.
func AssignPositions(nodes []graph.Node) {
	for i := range nodes {
		if nodes[i].X != 0 || nodes[i].Y != 0 {
			continue
		}
		nodes[i].X = layoutOriginX + float64(i%layoutColumns)*layoutColPitch
		nodes[i].Y = layoutOriginY + float64(i/layoutColumns)*layoutRowPitch
	}
}
