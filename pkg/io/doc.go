// Package io provides JSON import and export for particle buffers.
//
// # Overview
//
// A particle buffer is the output of a conversion: parallel position and
// color arrays with three floats per particle. This package serializes
// buffers for:
//
//   - Cache payloads, so a repeated conversion skips sampling entirely
//   - The JSON output of `glyphdust convert`
//   - The HTTP API served by `glyphdust serve`
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "source": "icon",
//	  "count": 2,
//	  "positions": [0.1, 0.2, 0, -0.1, -0.2, 0.05],
//	  "colors": [1, 1, 1, 1, 1, 1],
//	  "profile": {"influence_radius": 1.2, "strength": 0, "morph_speed": 0.08}
//	}
//
// Required: version, count, positions and colors. The positions and colors
// arrays must each hold exactly 3*count numbers. Optional:
//   - source: "icon" or "image", the pipeline that produced the buffer
//   - profile: the animation profile the buffer is meant to be shown with
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to
// read from any io.Reader. Both reject unknown versions, count mismatches
// and non-finite values with an INVALID_FORMAT error.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write
// to any io.Writer. [Marshal] and [Unmarshal] work on byte slices and back
// the cache layer.
package io
