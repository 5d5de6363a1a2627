// Package pkg provides the core libraries for Glyphdust particle fields.
//
// # Overview
//
// Glyphdust turns SVG icons and raster images into clouds of colored 3D
// particles and animates them toward their shape. A pointer pushes nearby
// particles away; swapping the target makes the cloud morph into another
// shape. The pkg directory is organized into four main areas:
//
//  1. Sampling - turning inputs into particle buffers
//  2. Simulation - the animated particle field
//  3. Output - rendering and serialization
//  4. Infrastructure - orchestration, caching, configuration, hooks
//
// # Architecture
//
// The typical data flow:
//
//	SVG markup              Encoded image
//	     ↓                       ↓
//	[markup] + [svgpath]    [sample] decode + downsample
//	     ↓                       ↓
//	[sample] area-weighted  [sample] per-pixel tone
//	     ↓                       ↓
//	         [field.Buffer] target
//	                ↓
//	         [field] tick loop
//	                ↓
//	     [render] braille, RGBA, SVG   [io] JSON
//
// # Quick Start
//
// Convert an icon and render an SVG still:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  pipeline.SourceIcon,
//	    Markup:  svg,
//	    Formats: []string{pipeline.FormatSVG},
//	    Ticks:   40,
//	})
//	os.WriteFile("icon.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// Animate a buffer yourself:
//
//	f, _ := field.New(buf.Len(), field.IconProfile)
//	f.Initialize(buf, field.InitEntrance)
//	for f.State() != field.Settled {
//	    f.Tick(field.NoPointer)
//	}
//
// # Main Packages
//
// ## Sampling
//
// [markup] - Extracts drawable primitives (path, circle, rect, ellipse, line,
// polyline, polygon) from SVG markup with a lenient tokenizer.
//
// [svgpath] - Parses path data and flattens it into polylines, including
// elliptical arcs.
//
// [sample] - Area-weighted point sampling inside outlines, the fallback disk,
// image decoding and downsampling, and the tone curve applied to pixels.
//
// [geom] - Small 2D geometry helpers shared by the samplers.
//
// ## Simulation
//
// [field] - The particle field: buffers, profiles, the per-tick morph with
// pointer repulsion, and an installer that hands background conversions to
// the frame loop without tearing.
//
// ## Output
//
// [render] - Camera projection, braille terminal frames, additive RGBA
// rasters and SVG stills.
//
// [io] - The JSON buffer document shared by the CLI and the HTTP server.
//
// ## Infrastructure
//
// [pipeline] - Complete convert → animate → render pipeline used by the CLI
// and the server. Ensures consistent behavior across all entry points.
//
// [cache] - Cache backends (file, memory, Redis, null) and key derivation.
//
// [config] - The TOML configuration file.
//
// [observability] - Hook registries for conversions, fields, caches and the
// server.
//
// [errors] - Coded errors and shared validators.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/field/...      # Specific package
//	go test -run Example         # Examples only
//
// [markup]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/markup
// [svgpath]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/svgpath
// [sample]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/sample
// [geom]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/geom
// [field]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/field
// [field.Buffer]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/field#Buffer
// [render]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/glyphdust/pkg/buildinfo
package pkg
