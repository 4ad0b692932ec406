// Package pipeline runs parse → layout → render for the CLI and the HTTP
// server.
//
// # Architecture
//
//  1. Parse: read a BOX document into a finalized [dag.DAG]
//  2. Layout: solve the tower geometry, or fetch it from the cache
//  3. Render: scale and jitter the layout and write each requested format
//
// Each stage is also available on its own through [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "deps.box",
//	    Input:   data,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Caching
//
// Layouts are keyed on a hash of the canonical BOX text of the graph plus
// the options that change geometry. Only optimal layouts are stored: a
// layout cut short by a time or iteration limit could be improved by a
// later run. Rendered artifacts are keyed on the layout and every drawing
// option.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/dag"
	coded "github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
	"github.com/matzehuels/boxtower/pkg/render/tower/styles"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

const (
	VizTypeTower    = "tower"
	VizTypeNodelink = "nodelink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

const (
	DefaultVizType  = VizTypeTower
	DefaultStyle    = "classic"
	DefaultPNGScale = 2.0
)

var (
	towerFormats    = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}
	nodelinkFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}
)

// Options contains all configuration for one pipeline run.
type Options struct {
	// Source names the input in logs and error messages.
	Source string `json:"source,omitempty"`
	// Input is the BOX document.
	Input []byte `json:"-"`

	Layout    layout.Options    `json:"layout"`
	Transform transform.Options `json:"transform"`

	VizType  string   `json:"viz_type,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	CSS      string   `json:"-"`
	PNGScale float64  `json:"png_scale,omitempty"`
	// Transitive also draws transitive dependencies in node-link output.
	Transitive bool `json:"transitive,omitempty"`

	// Verify re-checks every solved or cached layout against the graph.
	Verify bool `json:"-"`
	// Refresh ignores cached entries but still stores new ones.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *dag.DAG
	GraphHash string
	Layout    layout.Layout
	Tower     tower.Tower
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateAndSetDefaults checks every field and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		o.Source = "input"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Transform == (transform.Options{}) {
		o.Transform = transform.DefaultOptions()
	}

	if err := coded.ValidateFormat(o.VizType, VizTypeTower, VizTypeNodelink); err != nil {
		return err
	}
	allowed := towerFormats
	if o.VizType == VizTypeNodelink {
		allowed = nodelinkFormats
	}
	for _, f := range o.Formats {
		if err := coded.ValidateFormat(f, allowed...); err != nil {
			return err
		}
	}
	if _, err := styles.ByName(o.Style); err != nil {
		return coded.Wrap(coded.ErrCodeInvalidStyle, err, "invalid style")
	}
	if err := o.Layout.Validate(); err != nil {
		return coded.Wrap(coded.ErrCodeInvalidInput, err, "invalid layout options")
	}
	if err := o.Transform.Validate(); err != nil {
		return coded.Wrap(coded.ErrCodeInvalidInput, err, "invalid render options")
	}
	if o.PNGScale < 0 {
		return coded.New(coded.ErrCodeInvalidInput, "png scale must be positive, got %v", o.PNGScale)
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	hp, _ := layout.ParseHeightPolicy(string(o.Layout.HeightPolicy))
	return cache.LayoutKeyOpts{
		HeightPolicy: string(hp),
		GridWidth:    o.Layout.GridWidth,
		GridHeight:   o.Layout.GridHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
		ScaleX: o.Transform.ScaleX,
		ScaleY: o.Transform.ScaleY,
		Inset:  o.Transform.Inset,
		Jitter: o.Transform.Jitter,
		Seed:   o.Transform.Seed,
	}
	if o.CSS != "" {
		k.CSSHash = cache.Hash([]byte(o.CSS))
	}
	if format == FormatPNG {
		k.PNGZoom = o.PNGScale
	}
	if o.VizType == VizTypeNodelink {
		k.Style = fmt.Sprintf("nodelink:%t", o.Transitive)
	}
	return k
}
