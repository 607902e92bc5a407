// Package editor implements the two-state mode machine that keeps the
// textual and visual diagram representations interchangeable.
//
// An [Editor] owns the shared editing state (text, graph, mode, zoom) as an
// explicit container passed into the UI layers, never a package-level
// singleton. While in [ModeCode] the text is authoritative; while in
// [ModeVisual] the graph is. Conversion runs only at the explicit switch or
// export action, never continuously while editing, and each conversion
// wholly replaces one representation from the other: discard-and-rebuild,
// no incremental merge.
package editor

import (
	"github.com/flowpad/flowpad/pkg/graph"
	"github.com/flowpad/flowpad/pkg/mermaid"
)

// Mode identifies which representation is currently editable.
type Mode int

const (
	// ModeCode makes the diagram text authoritative.
	ModeCode Mode = iota
	// ModeVisual makes the graph model authoritative.
	ModeVisual
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// Zoom bounds for the visual canvas.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Editor is the shared editing state. Both representations persist across a
// round trip through the other mode: reading Text or Graph never converts
// anything, only [Editor.SwitchTo] and [Editor.Export] do.
//
// Editor is not safe for concurrent use; callers are expected to serialize
// access through a single event loop.
type Editor struct {
	mode  Mode
	text  string
	graph graph.Graph
	zoom  float64
}

// New creates an editor holding the given diagram text, starting in
// [ModeCode] at 1:1 zoom.
func New(text string) *Editor {
	return &Editor{mode: ModeCode, text: text, zoom: 1}
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.mode }

// Text returns the last materialized diagram text without converting.
func (e *Editor) Text() string { return e.text }

// Graph returns the last materialized graph without converting.
func (e *Editor) Graph() graph.Graph { return e.graph }

// SwitchTo changes mode, converting the source representation into the
// target one in a single step. Entering [ModeVisual] parses the current
// text and assigns grid positions, wholly replacing the graph; entering
// [ModeCode] serializes the current graph, wholly replacing the text.
// Switching to the current mode is a no-op.
//
// Transitions cannot fail: malformed text degrades to a sparse graph and is
// never an error here.
func (e *Editor) SwitchTo(mode Mode) {
	if mode == e.mode {
		return
	}
	switch mode {
	case ModeVisual:
		g := mermaid.Parse(e.text)
		mermaid.AssignPositions(g.Nodes)
		e.graph = g
	case ModeCode:
		e.text = mermaid.SerializeGraph(e.graph)
	}
	e.mode = mode
}

// Export serializes the current graph into canonical text, replaces the
// stored text with it, and returns it. Unlike [Editor.SwitchTo] it leaves
// the mode unchanged, which is the explicit "export" action available while
// in visual mode.
func (e *Editor) Export() string {
	e.text = mermaid.SerializeGraph(e.graph)
	return e.text
}

// SetText replaces the diagram text. Text edits accumulate while in code
// mode; the graph is not touched until the next switch to visual.
func (e *Editor) SetText(text string) {
	e.text = text
}

// ReplaceGraph installs an updated node/edge list from the visual layer,
// wholesale. The input is copied so later caller mutations cannot leak into
// the editor state.
func (e *Editor) ReplaceGraph(g graph.Graph) {
	e.graph = g.Clone()
}

// AddNode appends a node to the graph. An empty label defaults to the node
// ID so the node remains representable in text form.
func (e *Editor) AddNode(n graph.Node) {
	if n.Label == "" {
		n.Label = n.ID
	}
	e.graph.Nodes = append(e.graph.Nodes, n)
}

// Connect appends a directed edge between two node IDs. Endpoints are not
// validated; a dangling reference is kept as authored.
func (e *Editor) Connect(source, target string) {
	e.graph.Edges = append(e.graph.Edges, graph.Edge{
		ID:     graph.EdgeID(source, target),
		Source: source,
		Target: target,
	})
}

// MoveNode updates a node's canvas position. Unknown IDs are ignored.
func (e *Editor) MoveNode(id string, x, y float64) {
	for i := range e.graph.Nodes {
		if e.graph.Nodes[i].ID == id {
			e.graph.Nodes[i].X = x
			e.graph.Nodes[i].Y = y
			return
		}
	}
}

// RelabelNode updates a node's label. Unknown IDs are ignored.
func (e *Editor) RelabelNode(id, label string) {
	for i := range e.graph.Nodes {
		if e.graph.Nodes[i].ID == id {
			e.graph.Nodes[i].Label = label
			return
		}
	}
}

// Clear discards both representations.
func (e *Editor) Clear() {
	e.text = ""
	e.graph = graph.Graph{}
}

// Zoom returns the current canvas zoom factor.
func (e *Editor) Zoom() float64 { return e.zoom }

// SetZoom sets the canvas zoom factor, clamped to [MinZoom, MaxZoom].
func (e *Editor) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	e.zoom = z
}
