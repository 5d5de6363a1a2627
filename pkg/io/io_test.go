package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/field"
)

func testBuffer() field.Buffer {
	return field.Buffer{
		Positions: []float32{0.1, 0.2, 0, -0.5, 0.25, 0.06},
		Colors:    []float32{1, 1, 1, 0.2, 0.4, 0.6},
	}
}

func TestWriteReadJSON(t *testing.T) {
	p := field.IconProfile
	doc := NewDocument(testBuffer(), SourceIcon, &p)

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Count != 2 || got.Source != SourceIcon {
		t.Errorf("Count = %d, Source = %q, want 2, icon", got.Count, got.Source)
	}
	if got.Profile == nil || *got.Profile != field.IconProfile {
		t.Errorf("Profile = %v, want %v", got.Profile, field.IconProfile)
	}
	want := testBuffer()
	for i := range want.Positions {
		if got.Positions[i] != want.Positions[i] || got.Colors[i] != want.Colors[i] {
			t.Fatalf("value %d changed: %v/%v, want %v/%v",
				i, got.Positions[i], got.Colors[i], want.Positions[i], want.Colors[i])
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	data, err := Marshal(NewDocument(field.Buffer{}, SourceImage, nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"positions":[]`) {
		t.Errorf("Marshal() = %s, want empty arrays rather than null", data)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Buffer().Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Buffer().Len())
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"version":`},
		{"version", `{"version":2,"count":0,"positions":[],"colors":[]}`},
		{"count mismatch", `{"version":1,"count":2,"positions":[0,0,0],"colors":[1,1,1]}`},
		{"colors short", `{"version":1,"count":1,"positions":[0,0,0],"colors":[1]}`},
		{"negative count", `{"version":1,"count":-1,"positions":[],"colors":[]}`},
		{"source", `{"version":1,"source":"video","count":0,"positions":[],"colors":[]}`},
		{"profile", `{"version":1,"count":0,"positions":[],"colors":[],"profile":{"morph_speed":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadJSON() error = %v, want %v", err, errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.json")
	if err := ExportJSON(NewDocument(testBuffer(), SourceImage, nil), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	doc, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if doc.Source != SourceImage || doc.Count != 2 {
		t.Errorf("got %q with %d particles, want image with 2", doc.Source, doc.Count)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}
