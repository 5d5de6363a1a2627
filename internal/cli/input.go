package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/matzehuels/glyphdust/pkg/pipeline"
	"github.com/matzehuels/glyphdust/pkg/sample"
)

// stdinName is the input argument that reads standard input.
const stdinName = "-"

// readInput reads a file, or standard input for "-".
func readInput(path string) ([]byte, error) {
	var r io.Reader = os.Stdin
	if path != stdinName {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, sample.MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > sample.MaxImageBytes {
		return nil, fmt.Errorf("%s: input larger than %d MiB", path, sample.MaxImageBytes>>20)
	}
	return data, nil
}

// detectSource reports whether data is a raster image or icon markup.
func detectSource(data []byte) string {
	if filetype.IsImage(data) && !looksLikeMarkup(data) {
		return pipeline.SourceImage
	}
	return pipeline.SourceIcon
}

func looksLikeMarkup(data []byte) bool {
	head := data[:min(len(data), 512)]
	return bytes.Contains(head, []byte("<svg")) || bytes.Contains(head, []byte("<?xml"))
}

// setInput stores data on opts according to its source.
func setInput(opts *pipeline.Options, data []byte) {
	if opts.IsImage() {
		opts.Image = data
		opts.Markup = ""
		return
	}
	opts.Markup = string(data)
	opts.Image = nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinName {
			return "particles"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput opens path for writing, or stdout for "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == stdinName {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeArtifacts writes each rendered format and returns the paths written.
// A single format goes to output verbatim ("-" is stdout); several formats
// share output's base name. The input itself is never overwritten.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == stdinName && len(formats) != 1 {
		return nil, fmt.Errorf("writing to stdout needs exactly one format, got %d", len(formats))
	}

	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := output
		if len(formats) > 1 || output == "" {
			path = basePath(output, input) + "." + format
		}
		if path == input {
			path = basePath(output, input) + ".particles." + format
		}
		if err := writeFile(path, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
