// Package pipeline runs the decode → resolve → render pipeline for celldraw.
//
// The CLI and the HTTP server both go through a [Runner] so that caching,
// defaults and logging behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: strict JSON decoding and schema validation ([diagram.Decode])
//  2. Resolve: arrow geometry and viewport ([diagram.Resolve])
//  3. Render: output formats (resolved JSON, SVG preview, dependency DOT/SVG)
//
// Resolved diagrams and rendered artifacts are cached under content-hash
// keys, so re-running on an unchanged file is a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// [diagram.Decode]: github.com/matzehuels/celldraw/pkg/diagram.Decode
// [diagram.Resolve]: github.com/matzehuels/celldraw/pkg/diagram.Resolve
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/errors"
)

// Format constants for output formats.
const (
	// FormatJSON is the resolved diagram.
	FormatJSON = "json"
	// FormatSVG is the standalone SVG preview.
	FormatSVG = "svg"
	// FormatDOT is the attachment graph as Graphviz source.
	FormatDOT = "dot"
	// FormatDeps is the attachment graph rendered to SVG by Graphviz.
	FormatDeps = "deps"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatDeps: true,
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options. Zero selects the resolver default.
	NodeRadius  float64 `json:"node_radius,omitempty"`
	ViewPadding float64 `json:"view_padding,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"` // Ignore cached results

	// Render options
	Formats   []string `json:"formats,omitempty"`
	EmbedFont bool     `json:"embed_font,omitempty"`
	Outlines  bool     `json:"outlines,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"` // Detailed dependency graph labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the decoded input.
	Spec *diagram.Spec

	// SpecHash is the content hash of the input with JSON whitespace removed.
	SpecHash string

	// Diagram is the resolved diagram. It is set even when resolution
	// failed; Diagram.Error then says why.
	Diagram *diagram.ComputedDiagram

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	ArrowCount  int
	Resolved    int
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResolveHit bool // Whether the resolved diagram came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(slices.Sorted(maps.Keys(ValidFormats)), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetResolveDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetResolveDefaults sets default values for resolution.
func (o *Options) SetResolveDefaults() {
	if o.NodeRadius <= 0 {
		o.NodeRadius = diagram.DefaultNodeRadius
	}
	if o.ViewPadding <= 0 {
		o.ViewPadding = diagram.DefaultViewPadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResolveOptions converts o into resolver options.
func (o Options) ResolveOptions() []diagram.Option {
	return []diagram.Option{
		diagram.WithNodeRadius(o.NodeRadius),
		diagram.WithViewPadding(o.ViewPadding),
		diagram.WithLogger(o.Logger),
	}
}

// String summarises the options for logging.
func (o Options) String() string {
	return fmt.Sprintf("radius=%g padding=%g formats=%v", o.NodeRadius, o.ViewPadding, o.Formats)
}
