// Package pipeline orchestrates the parse → layout → render flow used by
// both the CLI and the HTTP API.
//
// Centralizing the flow keeps behavior consistent across entry points and
// gives rendering a single caching seam: artifacts are cached keyed by the
// canonical serialization of the parsed graph, so two texts that parse to
// the same diagram share one cache entry.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowpad/flowpad/pkg/graph"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Format selects the output artifact: svg, dot or json.
	Format string `json:"format,omitempty"`

	// Refresh bypasses the artifact cache and re-renders.
	Refresh bool `json:"refresh,omitempty"`

	// TTL overrides the artifact cache TTL. Zero uses the cache default.
	TTL time.Duration `json:"-"`

	// Logger receives progress output. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`
}

// setDefaults applies defaults for unset fields.
func (o *Options) setDefaults() {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed diagram with grid positions assigned.
	Graph graph.Graph

	// Canonical is the canonical serialization of Graph.
	Canonical string

	// Artifact is the rendered output in the requested format.
	Artifact []byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo reports whether the artifact came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool
}
