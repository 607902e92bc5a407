// Package graph defines the canonical in-memory diagram model shared by the
// text codec and the visual editor.
//
// A [Graph] holds insertion-ordered nodes and edges. Both the flowchart
// parser (pkg/mermaid) and direct visual-mode edits produce the same
// structure, which makes the two representations interchangeable: whichever
// side is authoritative at the moment can be rebuilt wholesale from the
// other.
//
// The model is deliberately permissive. Edge endpoints are plain node IDs
// and are never validated against the node set; a dangling reference is
// carried as-is rather than rejected, so a partially-authored diagram stays
// representable.
package graph
