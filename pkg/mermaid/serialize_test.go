package mermaid

import (
	"testing"

	"github.com/flowpad/flowpad/pkg/graph"
)

func TestSerializeEmpty(t *testing.T) {
	if got := Serialize(nil, nil); got != "" {
		t.Errorf("empty graph should serialize to \"\", got %q", got)
	}
}

func TestSerializeNodesAndEdge(t *testing.T) {
	nodes := []graph.Node{
		{ID: "n1", Shape: graph.ShapeCircle, Label: "X"},
		{ID: "n2", Shape: graph.ShapeHexagon, Label: "Y"},
	}
	edges := []graph.Edge{
		{ID: "n1-n2", Source: "n1", Target: "n2"},
	}

	want := "graph TD\n    n1((X))\n    n2{{Y}}\n    n1 --> n2"
	if got := Serialize(nodes, edges); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeEdgeLabel(t *testing.T) {
	edges := []graph.Edge{
		{ID: "a-b", Source: "a", Target: "b", Label: "yes"},
	}

	// No nodes means no header.
	want := "    a --> |yes| b"
	if got := Serialize(nil, edges); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeUnknownShapeFallsBack(t *testing.T) {
	nodes := []graph.Node{{ID: "n", Shape: "blob", Label: "L"}}
	want := "graph TD\n    n[L]"
	if got := Serialize(nodes, nil); got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeAllShapes(t *testing.T) {
	tests := []struct {
		shape graph.Shape
		want  string
	}{
		{graph.ShapeRectangle, "    n[L]"},
		{graph.ShapeStadium, "    n(L)"},
		{graph.ShapeDiamond, "    n{L}"},
		{graph.ShapeParallelogram, "    n[/L/]"},
		{graph.ShapeCircle, "    n((L))"},
		{graph.ShapeSubroutine, "    n[[L]]"},
		{graph.ShapeCylinder, "    n[(L)]"},
		{graph.ShapeHexagon, "    n{{L}}"},
	}

	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			got := Serialize([]graph.Node{{ID: "n", Shape: tt.shape, Label: "L"}}, nil)
			want := Header + "\n" + tt.want
			if got != want {
				t.Errorf("Serialize = %q, want %q", got, want)
			}
		})
	}
}

// Canonical text is a fixpoint: parsing it and serializing again must
// reproduce it byte for byte.
func TestSerializeRoundTrip(t *testing.T) {
	texts := []string{
		"graph TD\n    A[Start]\n    B{Choice}\n    C((Done))\n    A --> B\n    B --> |yes| C",
		"graph TD\n    only[One node]",
		"    x --> y",
	}

	for _, text := range texts {
		if got := SerializeGraph(Parse(text)); got != text {
			t.Errorf("round trip changed text:\n got %q\nwant %q", got, text)
		}
	}
}
