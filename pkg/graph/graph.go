package graph

import (
	"encoding/json"
	"fmt"
)

// Shape identifies the visual shape of a node. Each shape is bound to
// exactly one delimiter pair in the flowchart grammar (see pkg/mermaid).
type Shape string

// Supported node shapes.
const (
	ShapeRectangle     Shape = "rectangle"
	ShapeStadium       Shape = "stadium"
	ShapeDiamond       Shape = "diamond"
	ShapeParallelogram Shape = "parallelogram"
	ShapeCircle        Shape = "circle"
	ShapeSubroutine    Shape = "subroutine"
	ShapeCylinder      Shape = "cylinder"
	ShapeHexagon       Shape = "hexagon"
)

// Valid reports whether s is one of the supported shapes.
func (s Shape) Valid() bool {
	switch s {
	case ShapeRectangle, ShapeStadium, ShapeDiamond, ShapeParallelogram,
		ShapeCircle, ShapeSubroutine, ShapeCylinder, ShapeHexagon:
		return true
	}
	return false
}

// Node is a single diagram node. Positions are canvas coordinates assigned
// either by the grid layout (after parsing) or by the visual editor.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Shape Shape   `json:"shape" bson:"shape"`
	Label string  `json:"label" bson:"label"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
}

// Edge is a directed connection between two node IDs. The ID is derived
// from the endpoints and is not guaranteed unique across re-parses.
// Source and Target are not validated against the node set.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}

// EdgeID derives the edge identifier for a source/target pair.
func EdgeID(source, target string) string {
	return fmt.Sprintf("%s-%s", source, target)
}

// Graph is the canonical diagram structure: insertion-ordered node and edge
// lists. The zero value is an empty, usable graph.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node returns the node with the given ID, or false if absent.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// IsEmpty reports whether the graph has neither nodes nor edges.
func (g Graph) IsEmpty() bool {
	return len(g.Nodes) == 0 && len(g.Edges) == 0
}

// Clone returns a deep copy of the graph. Callers that hand a graph to the
// visual layer use this to keep the authoritative copy isolated.
func (g Graph) Clone() Graph {
	out := Graph{}
	if g.Nodes != nil {
		out.Nodes = make([]Node, len(g.Nodes))
		copy(out.Nodes, g.Nodes)
	}
	if g.Edges != nil {
		out.Edges = make([]Edge, len(g.Edges))
		copy(out.Edges, g.Edges)
	}
	return out
}

// Equal reports structural equality: same nodes (ID, shape, label) in the
// same order and same edges (endpoints, label) in the same order. Positions
// are excluded, since the textual form does not encode them.
func (g Graph) Equal(other Graph) bool {
	if len(g.Nodes) != len(other.Nodes) || len(g.Edges) != len(other.Edges) {
		return false
	}
	for i, n := range g.Nodes {
		o := other.Nodes[i]
		if n.ID != o.ID || n.Shape != o.Shape || n.Label != o.Label {
			return false
		}
	}
	for i, e := range g.Edges {
		o := other.Edges[i]
		if e.Source != o.Source || e.Target != o.Target || e.Label != o.Label {
			return false
		}
	}
	return true
}

// Marshal encodes the graph as indented JSON.
func Marshal(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Unmarshal decodes a JSON graph.
func Unmarshal(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
