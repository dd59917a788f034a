package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/observability"
	"github.com/matzehuels/treeflow/pkg/render"
	"github.com/matzehuels/treeflow/pkg/render/canvas"
	"github.com/matzehuels/treeflow/pkg/render/nodelink"
	"github.com/matzehuels/treeflow/pkg/source"
)

// Export generates artifacts in the requested formats from a rendered
// surface.
func Export(ctx context.Context, surface *canvas.SVG, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if surface.Bytes() == nil {
		return nil, errors.New(errors.ErrCodeInvalidState, "export: surface has not rendered")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := export(ctx, surface, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func export(ctx context.Context, surface *canvas.SVG, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = bytes.Clone(surface.Bytes())
		case FormatJSON:
			data, err = surface.Scene().JSON()
		case FormatDOT:
			dot = toDOT(surface, opts, dot)
			data = []byte(dot)
		case FormatNodelink:
			dot = toDOT(surface, opts, dot)
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = render.ToPNG(ctx, surface.Bytes(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, surface.Bytes())
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func toDOT(surface *canvas.SVG, opts Options, cached string) string {
	if cached != "" {
		return cached
	}
	return nodelink.ToDOT(surface.Graph(), opts.Resolver(), nodelink.Options{Detailed: true})
}

// RenderTree renders raw tree JSON as an SVG document into mount. It runs
// the full lifecycle without a cache; opts.Formats is ignored.
func RenderTree(ctx context.Context, raw []byte, mount io.Writer, opts Options) (*Result, error) {
	if mount == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render tree: mount target is required")
	}
	opts.Formats = []string{FormatSVG}

	runner := NewRunner(nil, nil, opts.Logger)
	result, err := runner.Execute(ctx, &source.Bytes{Data: raw, Name: "tree"}, opts)
	if err != nil {
		return result, err
	}
	if _, err := mount.Write(result.Artifacts[FormatSVG]); err != nil {
		return result, errors.Wrap(errors.ErrCodeInternal, err, "write svg")
	}
	return result, nil
}
