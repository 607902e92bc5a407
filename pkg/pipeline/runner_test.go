package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/flowpad/flowpad/pkg/cache"
	"github.com/flowpad/flowpad/pkg/graph"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatSVG, FormatDOT, FormatJSON} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q): %v", f, err)
		}
	}
	if err := ValidateFormat("png"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRunInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil)
	if _, err := r.Run(context.Background(), "A[x]", Options{Format: "png"}); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestRunDOT(t *testing.T) {
	r := NewRunner(nil, nil)
	result, err := r.Run(context.Background(), "graph TD\n    A[Start] --> B[End]", Options{Format: FormatDOT})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Stats.NodeCount != 2 || result.Stats.EdgeCount != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	dot := string(result.Artifact)
	if !strings.Contains(dot, "digraph") || !strings.Contains(dot, `"A" -> "B"`) {
		t.Errorf("unexpected DOT output: %s", dot)
	}
	if result.CacheInfo.RenderHit {
		t.Error("DOT output should never come from cache")
	}
}

func TestRunJSON(t *testing.T) {
	r := NewRunner(nil, nil)
	result, err := r.Run(context.Background(), "graph TD\n    A[Start]", Options{Format: FormatJSON})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	g, err := graph.Unmarshal(result.Artifact)
	if err != nil {
		t.Fatalf("artifact is not a JSON graph: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "A" {
		t.Errorf("unexpected graph: %+v", g)
	}
	// Grid layout positions ride along in the JSON.
	if g.Nodes[0].X != 100 || g.Nodes[0].Y != 100 {
		t.Errorf("positions missing: %+v", g.Nodes[0])
	}
}

func TestRunCanonicalizes(t *testing.T) {
	r := NewRunner(nil, nil)
	result, err := r.Run(context.Background(), "flowchart LR\nA[Start]   -->    B[End]", Options{Format: FormatDOT})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "graph TD\n    A[Start]\n    B[End]\n    A --> B"
	if result.Canonical != want {
		t.Errorf("canonical = %q, want %q", result.Canonical, want)
	}
}

// A pre-seeded cache entry must be served instead of re-rendering, and the
// key must be derived from the canonical text so formatting differences
// still hit.
func TestRunSVGCacheHit(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	canonical := "graph TD\n    A[Start]\n    B[End]\n    A --> B"
	seeded := []byte("<svg>seeded</svg>")
	if err := c.Set(ctx, cache.RenderKey(canonical, FormatSVG), seeded, time.Hour); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(c, nil)
	// Differently formatted text, same canonical form.
	result, err := r.Run(ctx, "flowchart LR\n  A[Start]-->B[End]", Options{Format: FormatSVG})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.CacheInfo.RenderHit {
		t.Error("expected a cache hit")
	}
	if string(result.Artifact) != "<svg>seeded</svg>" {
		t.Errorf("artifact = %q", result.Artifact)
	}
}

func TestRunEmptyText(t *testing.T) {
	r := NewRunner(nil, nil)
	result, err := r.Run(context.Background(), "", Options{Format: FormatJSON})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stats.NodeCount != 0 || result.Stats.EdgeCount != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Canonical != "" {
		t.Errorf("canonical = %q, want empty", result.Canonical)
	}
}
