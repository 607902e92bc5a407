package mermaid

import "github.com/flowpad/flowpad/pkg/graph"

// Delims is a delimiter pair enclosing a node label in flowchart text.
type Delims struct {
	Open  string
	Close string
}

// shapeDelims is the closed taxonomy binding each shape to its delimiter
// pair. Order matters: compound delimiters must precede the single-character
// pairs they extend, so the generated patterns try `[[` before `[`.
var shapeDelims = []struct {
	Shape  graph.Shape
	Delims Delims
}{
	{graph.ShapeSubroutine, Delims{"[[", "]]"}},
	{graph.ShapeCylinder, Delims{"[(", ")]"}},
	{graph.ShapeParallelogram, Delims{"[/", "/]"}},
	{graph.ShapeCircle, Delims{"((", "))"}},
	{graph.ShapeHexagon, Delims{"{{", "}}"}},
	{graph.ShapeRectangle, Delims{"[", "]"}},
	{graph.ShapeStadium, Delims{"(", ")"}},
	{graph.ShapeDiamond, Delims{"{", "}"}},
}

// DelimsToShape resolves a delimiter pair to its shape. Unrecognized pairs
// fall back to rectangle so foreign syntax degrades instead of failing.
func DelimsToShape(open, close string) graph.Shape {
	for _, sd := range shapeDelims {
		if sd.Delims.Open == open && sd.Delims.Close == close {
			return sd.Shape
		}
	}
	return graph.ShapeRectangle
}

// ShapeToDelims resolves a shape to its delimiter pair. Unrecognized shapes
// fall back to the rectangle delimiters.
func ShapeToDelims(shape graph.Shape) Delims {
	for _, sd := range shapeDelims {
		if sd.Shape == shape {
			return sd.Delims
		}
	}
	return Delims{"[", "]"}
}
