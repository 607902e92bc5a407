package mermaid

import (
	"testing"

	"github.com/flowpad/flowpad/pkg/graph"
)

func TestDelimsToShape(t *testing.T) {
	tests := []struct {
		open, close string
		want        graph.Shape
	}{
		{"[", "]", graph.ShapeRectangle},
		{"(", ")", graph.ShapeStadium},
		{"{", "}", graph.ShapeDiamond},
		{"[/", "/]", graph.ShapeParallelogram},
		{"((", "))", graph.ShapeCircle},
		{"[[", "]]", graph.ShapeSubroutine},
		{"[(", ")]", graph.ShapeCylinder},
		{"{{", "}}", graph.ShapeHexagon},
		{"<", ">", graph.ShapeRectangle}, // unknown falls back
	}

	for _, tt := range tests {
		if got := DelimsToShape(tt.open, tt.close); got != tt.want {
			t.Errorf("DelimsToShape(%q, %q) = %q, want %q", tt.open, tt.close, got, tt.want)
		}
	}
}

func TestShapeRoundTrip(t *testing.T) {
	for _, sd := range shapeDelims {
		d := ShapeToDelims(sd.Shape)
		if got := DelimsToShape(d.Open, d.Close); got != sd.Shape {
			t.Errorf("shape %q did not survive delimiter round trip, got %q", sd.Shape, got)
		}
	}
}

func TestShapeToDelimsUnknown(t *testing.T) {
	d := ShapeToDelims("blob")
	if d.Open != "[" || d.Close != "]" {
		t.Errorf("unknown shape should fall back to rectangle delims, got %+v", d)
	}
}
