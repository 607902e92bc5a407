package mermaid

import (
	"regexp"
	"strings"

	"github.com/flowpad/flowpad/pkg/graph"
)

// Patterns are generated from the shape taxonomy so the delimiter table
// stays the single source of truth.
var (
	// nodeRE matches `id<open>label<close>` with one capture group per
	// delimiter pair, in taxonomy order. Group 1 is the identifier.
	nodeRE *regexp.Regexp

	// edgeRE matches `id [shape]? arrow |label|? id`, where the optional
	// shape clauses are consumed without capturing (node declarations on
	// the same line are picked up by nodeRE).
	edgeRE *regexp.Regexp
)

// Arrow tokens recognized on edge declarations. Solid, dotted and thick
// arrows all normalize to the single canonical directed edge; style
// fidelity is intentionally not preserved.
const arrowTokens = `-->|-\.->|==>`

const ident = `[A-Za-z0-9_]+`

func init() {
	labeled := make([]string, len(shapeDelims))
	bare := make([]string, len(shapeDelims))
	for i, sd := range shapeDelims {
		open := regexp.QuoteMeta(sd.Delims.Open)
		close := regexp.QuoteMeta(sd.Delims.Close)
		labeled[i] = open + `(.+?)` + close
		bare[i] = `(?:` + open + `.+?` + close + `)`
	}
	nodeRE = regexp.MustCompile(`(` + ident + `)(?:` + strings.Join(labeled, "|") + `)`)
	edgeRE = regexp.MustCompile(
		`(` + ident + `)(?:` + strings.Join(bare, "|") + `)?` +
			`\s*(?:` + arrowTokens + `)\s*` +
			`(?:\|([^|]*)\|\s*)?` +
			`(` + ident + `)`)
}

// Parse converts flowchart text into a graph. It is line-oriented: the
// header and blank lines are skipped, every other line is tested for node
// and edge declarations independently, and anything unrecognized is
// silently dropped. Parse never fails; malformed input yields a partial
// (possibly empty) graph. Node positions are left unset, see
// [AssignPositions].
//
// A repeated node ID overwrites the earlier declaration's shape and label
// but keeps its first-occurrence order. Edge endpoints are not required to
// name declared nodes.
func Parse(text string) graph.Graph {
	var g graph.Graph
	index := make(map[string]int)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") || isHeader(line) {
			continue
		}

		for _, loc := range nodeRE.FindAllStringSubmatchIndex(line, -1) {
			id := line[loc[2]:loc[3]]
			for gi, sd := range shapeDelims {
				start, end := loc[2*(gi+2)], loc[2*(gi+2)+1]
				if start < 0 {
					continue
				}
				label := strings.TrimSpace(line[start:end])
				if i, ok := index[id]; ok {
					g.Nodes[i].Shape = sd.Shape
					g.Nodes[i].Label = label
				} else {
					index[id] = len(g.Nodes)
					g.Nodes = append(g.Nodes, graph.Node{ID: id, Shape: sd.Shape, Label: label})
				}
				break
			}
		}

		for _, loc := range edgeRE.FindAllStringSubmatchIndex(line, -1) {
			source := line[loc[2]:loc[3]]
			target := line[loc[6]:loc[7]]
			var label string
			if loc[4] >= 0 {
				label = strings.TrimSpace(line[loc[4]:loc[5]])
			}
			g.Edges = append(g.Edges, graph.Edge{
				ID:     graph.EdgeID(source, target),
				Source: source,
				Target: target,
				Label:  label,
			})
		}
	}

	return g
}

// isHeader reports whether the line is a diagram-type/direction header
// such as `graph TD` or `flowchart LR`.
func isHeader(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return fields[0] == "graph" || fields[0] == "flowchart"
}
