package mermaid

import (
	"fmt"
	"strings"

	"github.com/flowpad/flowpad/pkg/graph"
)

// Header is the fixed direction header emitted on serialization. Parsing
// accepts any direction token; output is always canonicalized to this one.
const Header = "graph TD"

// indent prefixes every declaration line in canonical output.
const indent = "    "

// Serialize turns ordered node and edge lists into canonical flowchart
// text. Nodes and edges are emitted in insertion order; positions are not
// encoded. The header is emitted only when the node list is non-empty, and
// an empty graph serializes to "", so "nothing authored" stays
// distinguishable from "header only".
//
// All edges render in the single canonical directed form regardless of the
// arrow style that produced them.
func Serialize(nodes []graph.Node, edges []graph.Edge) string {
	if len(nodes) == 0 && len(edges) == 0 {
		return ""
	}

	lines := make([]string, 0, len(nodes)+len(edges)+1)
	if len(nodes) > 0 {
		lines = append(lines, Header)
	}
	for _, n := range nodes {
		d := ShapeToDelims(n.Shape)
		lines = append(lines, indent+n.ID+d.Open+n.Label+d.Close)
	}
	for _, e := range edges {
		if e.Label == "" {
			lines = append(lines, fmt.Sprintf("%s%s --> %s", indent, e.Source, e.Target))
		} else {
			lines = append(lines, fmt.Sprintf("%s%s --> |%s| %s", indent, e.Source, e.Label, e.Target))
		}
	}
	return strings.Join(lines, "\n")
}

// SerializeGraph is a convenience wrapper over [Serialize].
func SerializeGraph(g graph.Graph) string {
	return Serialize(g.Nodes, g.Edges)
}
