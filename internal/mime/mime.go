// Package mime plugs the tree renderer into a notebook document builder. The
// builder hands over each cell output as MIME-typed data; application/json
// outputs become one raw HTML node, everything else is declined.
package mime

import (
	"github.com/cockroachdb/errors"
	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
)

// TypeJSON is the only MIME type the plugin accepts.
const TypeJSON = "application/json"

// MimeData is one output of a notebook cell.
type MimeData struct {
	MimeType string
	// Content is the already-decoded JSON payload.
	Content any
	// OutputMetadata is keyed by MIME type. The entry for TypeJSON may
	// set "root" (string) and "expanded" (bool).
	OutputMetadata map[string]any
}

// RawNode is a block of markup passed through to the output document.
type RawNode struct {
	Text    string
	Format  string
	Classes []string
}

// PriorityOverride ranks a MIME type for a builder; "*" matches any builder.
type PriorityOverride struct {
	Builder  string
	MimeType string
	Priority int
}

// MimePriorityOverrides makes application/json the lowest-ranked choice for
// every builder, so richer representations of the same output win.
var MimePriorityOverrides = []PriorityOverride{
	{Builder: "*", MimeType: TypeJSON, Priority: 1},
}

// Plugin renders application/json outputs as collapsible trees.
type Plugin struct {
	// Logger receives failures and, with Debug set, per-output stats.
	// Nil means DefaultLogger.
	Logger Logger
	// Parser converts the payload. Nil means the default depth bound.
	Parser *parser.Parser
	Debug  bool
}

// NewPlugin returns a plugin that reports to logger.
func NewPlugin(logger Logger) *Plugin {
	return &Plugin{Logger: logger}
}

func (p *Plugin) logger() Logger {
	if p.Logger == nil {
		return DefaultLogger{}
	}
	return p.Logger
}

// HandleMime renders data into a single raw HTML node. It declines (returns
// false) for inline display, for other MIME types, and when anything goes
// wrong; failures are logged and never propagate to the host.
func (p *Plugin) HandleMime(data MimeData, inline bool) (nodes []RawNode, ok bool) {
	if inline || data.MimeType != TypeJSON {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger().Errorf("jsontree: %+v", panicError(r))
			nodes, ok = nil, false
		}
	}()

	node, err := p.render(data)
	if err != nil {
		p.logger().Errorf("jsontree: %+v", errors.Wrap(err, "cannot render application/json output"))
		return nil, false
	}
	return []RawNode{node}, true
}

func (p *Plugin) render(data MimeData) (RawNode, error) {
	opts, err := Options(data.OutputMetadata)
	if err != nil {
		return RawNode{}, err
	}

	conv := p.Parser
	if conv == nil {
		conv = parser.NewParser(parser.DefaultMaxDepth)
	}
	v, err := conv.FromAny(data.Content)
	if err != nil {
		return RawNode{}, errors.WithStack(err)
	}

	if p.Debug {
		p.logger().Infof("jsontree: rendering %s under %q: %s", v.Kind, opts.Root, analyzer.Analyze(v))
	}

	return RawNode{
		Text:    render.HTML(v, opts),
		Format:  "html",
		Classes: []string{"output", "text_html"},
	}, nil
}

// Options reads render options from the application/json entry of the output
// metadata. A missing entry or key keeps the default: root "root", expanded.
func Options(metadata map[string]any) (render.Options, error) {
	opts := render.DefaultOptions()

	raw, present := metadata[TypeJSON]
	if !present || raw == nil {
		return opts, nil
	}
	entry, isMap := raw.(map[string]any)
	if !isMap {
		return opts, errors.Newf("metadata for %s must be a mapping, got %T", TypeJSON, raw)
	}

	if root, present := entry["root"]; present {
		s, isString := root.(string)
		if !isString {
			return opts, errors.Newf("metadata key %q must be a string, got %T", "root", root)
		}
		opts.Root = s
	}
	if expanded, present := entry["expanded"]; present {
		b, isBool := expanded.(bool)
		if !isBool {
			return opts, errors.Newf("metadata key %q must be a boolean, got %T", "expanded", expanded)
		}
		opts.Expanded = b
	}
	return opts, nil
}

// panicError turns a recovered value into an error carrying the stack of the
// recovery point.
func panicError(r any) error {
	if err, isErr := r.(error); isErr {
		return errors.Wrap(err, "panic while rendering")
	}
	return errors.Newf("panic while rendering: %v", r)
}
