package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/graph"
	"github.com/matzehuels/analogtopo/pkg/render/nodelink"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// RenderOptions controls graph rendering.
type RenderOptions struct {
	Formats  []string
	Detailed bool    // include model and geometry in device labels
	Scale    float64 // PNG scale factor, default 2
}

// Render generates output artifacts for g in the requested formats. Devices
// that appear in set are highlighted; set may be nil. The json format is the
// node-link serialization of g and ignores set.
func Render(ctx context.Context, g *topology.Graph, set *constraint.Set, opts RenderOptions) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if opts.Scale == 0 {
		opts.Scale = 2.0
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Highlight: set})
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
