// Package render turns the diagram model into pictures via Graphviz.
//
// This is the external rendering collaborator of the codec core: it
// consumes canonical diagram structure, produces an SVG payload, and on
// failure exposes a free-text error that [ExtractError] scrapes for line
// and column hints. Render failures are informational only; they never
// affect the graph model or the editing session.
package render

import (
	"bytes"
	"fmt"

	"github.com/flowpad/flowpad/pkg/graph"
	"github.com/flowpad/flowpad/pkg/mermaid"
)

// shapeAttrs maps model shapes onto Graphviz node attributes.
var shapeAttrs = map[graph.Shape]string{
	graph.ShapeRectangle:     "shape=box",
	graph.ShapeStadium:       "shape=box, style=rounded",
	graph.ShapeDiamond:       "shape=diamond",
	graph.ShapeParallelogram: "shape=parallelogram",
	graph.ShapeCircle:        "shape=circle",
	graph.ShapeSubroutine:    "shape=box, peripheries=2",
	graph.ShapeCylinder:      "shape=cylinder",
	graph.ShapeHexagon:       "shape=hexagon",
}

// ToDOT converts a graph to Graphviz DOT. Node order follows the model so
// output is deterministic for a given graph. Edges referencing undeclared
// nodes are emitted as-is; Graphviz materializes the missing endpoint,
// which mirrors how the core retains dangling references.
func ToDOT(g graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs, ok := shapeAttrs[n.Shape]
		if !ok {
			attrs = shapeAttrs[graph.ShapeRectangle]
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", n.ID, n.Label, attrs)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Text parses flowchart text and renders it to SVG in one step. Kept here
// so callers that only hold text (the HTTP API, the editor preview) do not
// need to drive the codec themselves.
func Text(text string) ([]byte, error) {
	return SVG(mermaid.Parse(text))
}
