package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/render/nodelink"
	"github.com/matzehuels/celldraw/pkg/render/svg"
)

// Render produces every requested format. The dependency formats only need
// spec; the others only need d.
func Render(ctx context.Context, spec *diagram.Spec, d *diagram.ComputedDiagram, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := MarshalDiagram(d)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatSVG:
			out[format] = svg.Render(d, svgOptions(opts)...)
		case FormatDOT, FormatDeps:
			if dot == "" {
				dot = nodelink.ToDOT(diagram.Dependencies(spec), nodelink.Options{Detailed: opts.Detailed})
			}
			if format == FormatDOT {
				out[format] = []byte(dot)
				continue
			}
			data, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render dependencies: %w", err)
			}
			out[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return out, nil
}

// MarshalDiagram encodes d as indented JSON with a trailing newline.
func MarshalDiagram(d *diagram.ComputedDiagram) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode diagram: %w", err)
	}
	return append(data, '\n'), nil
}

func svgOptions(opts Options) []svg.Option {
	var out []svg.Option
	if opts.EmbedFont {
		out = append(out, svg.WithEmbeddedFont())
	}
	if opts.Outlines {
		out = append(out, svg.WithNodeOutlines())
	}
	return out
}
