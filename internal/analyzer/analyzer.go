package analyzer

import (
	"fmt"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/models"
)

// Stats describes the shape of a value as the tree renderer will lay it out.
type Stats struct {
	Scalars int
	Lists   int
	Maps    int
	Keys    int // object members, the root label excluded
	// Kinds counts every node by JSON type.
	Kinds map[models.Kind]int
	// Collapsible counts entries with a toggle: the root entry and object
	// members whose value is a non-empty container.
	Collapsible int
	// Nested counts non-empty containers, which is also the number of
	// entries that start collapsed when the tree is not expanded.
	Nested int
	// Collapsed is the number of entries that start collapsed under the
	// analyzer's configuration.
	Collapsed int
	// Depth is the deepest container nesting; scalars are depth 0.
	Depth int
}

// String summarizes the stats on one line for debug logs.
func (s Stats) String() string {
	return fmt.Sprintf("%d scalars, %d arrays, %d objects, %d keys, depth %d, %d collapsible, %d collapsed",
		s.Scalars, s.Lists, s.Maps, s.Keys, s.Depth, s.Collapsible, s.Collapsed)
}

// Analyzer computes shape statistics for values about to be rendered
type Analyzer struct {
	// config holds the expansion and depth settings
	config *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{config: config.NewConfig()}
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Analyzer{config: cfg}
}

// Analyze walks v once and returns its stats.
func (a *Analyzer) Analyze(v models.Value) Stats {
	stats := Stats{Kinds: make(map[models.Kind]int)}
	stats.Depth = a.walk(v, true, &stats)
	if !a.config.Expanded {
		stats.Collapsed = stats.Nested
	}
	return stats
}

// Analyze computes stats under the default configuration.
func Analyze(v models.Value) Stats {
	return NewAnalyzer().Analyze(v)
}

// walk records v and returns its container depth. keyed is true when v is
// shown behind a key label (the root and object members).
func (a *Analyzer) walk(v models.Value, keyed bool, stats *Stats) int {
	stats.Kinds[v.Kind]++
	if v.IsNested() {
		stats.Nested++
		if keyed {
			stats.Collapsible++
		}
	}

	deepest := 0
	switch v.Kind {
	case models.List:
		stats.Lists++
		for _, item := range v.Items() {
			deepest = max(deepest, a.walk(item, false, stats))
		}
	case models.Map:
		stats.Maps++
		for _, m := range v.Members() {
			stats.Keys++
			deepest = max(deepest, a.walk(m.Value, true, stats))
		}
	default:
		stats.Scalars++
		return 0
	}
	return deepest + 1
}
