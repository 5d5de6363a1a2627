package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

func TestDetectSource(t *testing.T) {
	var pngData bytes.Buffer
	if err := png.Encode(&pngData, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngData.Bytes(), pipeline.SourceImage},
		{"svg", []byte(`<svg viewBox="0 0 24 24"><path d="M0 0h24v24H0z"/></svg>`), pipeline.SourceIcon},
		{"xml prolog", []byte(`<?xml version="1.0"?><svg/>`), pipeline.SourceIcon},
		{"text", []byte("hello"), pipeline.SourceIcon},
		{"empty", nil, pipeline.SourceIcon},
	}
	for _, tt := range tests {
		if got := detectSource(tt.data); got != tt.want {
			t.Errorf("detectSource(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSetInput(t *testing.T) {
	opts := pipeline.Options{Source: pipeline.SourceImage, Markup: "<svg/>"}
	setInput(&opts, []byte{1, 2})
	if opts.Markup != "" || len(opts.Image) != 2 {
		t.Errorf("image setInput = markup %q, image %v", opts.Markup, opts.Image)
	}

	opts = pipeline.Options{Source: pipeline.SourceIcon, Image: []byte{1}}
	setInput(&opts, []byte("<svg/>"))
	if opts.Markup != "<svg/>" || opts.Image != nil {
		t.Errorf("icon setInput = markup %q, image %v", opts.Markup, opts.Image)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "logo.svg", "logo"},
		{"", "dir/photo.png", "dir/photo"},
		{"", "-", "particles"},
		{"out.svg", "logo.svg", "out"},
		{"out.json", "logo.svg", "out"},
		{"out.tar", "logo.svg", "out.tar"},
		{"frames/out", "logo.svg", "frames/out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		pipeline.FormatJSON: []byte(`{"count":0}`),
		pipeline.FormatSVG:  []byte(`<svg/>`),
	}

	t.Run("single format verbatim", func(t *testing.T) {
		out := filepath.Join(dir, "one", "buffer.data")
		paths, err := writeArtifacts(artifacts, []string{pipeline.FormatJSON}, "logo.svg", out)
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		if len(paths) != 1 || paths[0] != out {
			t.Errorf("paths = %v, want [%s]", paths, out)
		}
		data, _ := os.ReadFile(out)
		if string(data) != `{"count":0}` {
			t.Errorf("content = %q", data)
		}
	})

	t.Run("several formats share a base", func(t *testing.T) {
		out := filepath.Join(dir, "multi", "frame.svg")
		paths, err := writeArtifacts(artifacts, []string{pipeline.FormatJSON, pipeline.FormatSVG}, "logo.svg", out)
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		want := []string{filepath.Join(dir, "multi", "frame.json"), filepath.Join(dir, "multi", "frame.svg")}
		if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
			t.Errorf("paths = %v, want %v", paths, want)
		}
	})

	t.Run("next to input", func(t *testing.T) {
		input := filepath.Join(dir, "logo.svg")
		paths, err := writeArtifacts(artifacts, []string{pipeline.FormatJSON, pipeline.FormatSVG}, input, "")
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		want := []string{filepath.Join(dir, "logo.json"), filepath.Join(dir, "logo.particles.svg")}
		if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
			t.Errorf("paths = %v, want %v", paths, want)
		}
	})

	t.Run("stdout needs one format", func(t *testing.T) {
		if _, err := writeArtifacts(artifacts, []string{"json", "svg"}, "logo.svg", "-"); err == nil {
			t.Error("writeArtifacts() to stdout with two formats succeeded")
		}
	})
}

func TestReadInputMissing(t *testing.T) {
	if _, err := readInput(filepath.Join(t.TempDir(), "missing.svg")); err == nil {
		t.Error("readInput() of a missing file succeeded")
	}
}
