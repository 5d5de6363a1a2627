package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/glyphdust/pkg/field"
)

// Version is the document format version written by this package.
const Version = 1

// Source names the pipeline that produced a buffer.
type Source string

const (
	SourceIcon  Source = "icon"
	SourceImage Source = "image"
)

// Document is the serialized form of a particle buffer.
type Document struct {
	Version   int            `json:"version"`
	Source    Source         `json:"source,omitempty"`
	Count     int            `json:"count"`
	Positions []float32      `json:"positions"`
	Colors    []float32      `json:"colors"`
	Profile   *field.Profile `json:"profile,omitempty"`
}

// NewDocument wraps buf for export.
func NewDocument(buf field.Buffer, src Source, p *field.Profile) Document {
	positions, colors := buf.Positions, buf.Colors
	if positions == nil {
		positions = []float32{}
	}
	if colors == nil {
		colors = []float32{}
	}
	return Document{
		Version:   Version,
		Source:    src,
		Count:     buf.Len(),
		Positions: positions,
		Colors:    colors,
		Profile:   p,
	}
}

// Buffer returns the document's particles.
func (d Document) Buffer() field.Buffer {
	return field.Buffer{Positions: d.Positions, Colors: d.Colors}
}

// Marshal encodes a document compactly.
func Marshal(d Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteJSON encodes a document as indented JSON and writes it to w.
func WriteJSON(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
func ExportJSON(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
