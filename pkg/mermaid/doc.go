// Package mermaid implements the bidirectional flowchart codec: a lenient
// line-oriented parser from Mermaid-style flowchart text to the graph model,
// and a serializer from the graph model back to canonical text.
//
// The grammar covered is the flowchart subset: a `graph <dir>` header, node
// declarations `id[label]` with one delimiter pair per shape, and directed
// edge declarations `a --> b` with an optional `|label|`. Everything else is
// treated as noise and dropped; [Parse] never fails, it degrades to the best
// achievable partial graph. That leniency is a policy decision, not an
// oversight: an editing session must survive arbitrary half-typed input.
//
// Round-trip contract: serialize∘parse is a fixpoint after one pass, and
// parse∘serialize preserves the graph up to positions (the textual form does
// not encode them).
package mermaid
