package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/glyphdust/pkg/errors"
)

// ReadJSON decodes a document from r and validates it.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, the
// version is unknown, the arrays do not hold 3*count values, or any value
// is NaN or infinite. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// Unmarshal decodes and validates a document from data.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// ImportJSON reads a JSON file at path and returns the decoded document.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Validate checks the document's structural invariants.
func (d Document) Validate() error {
	if d.Version != Version {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported version %d", d.Version)
	}
	switch d.Source {
	case "", SourceIcon, SourceImage:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown source %q", d.Source)
	}
	if d.Count < 0 || len(d.Positions) != 3*d.Count || len(d.Colors) != 3*d.Count {
		return errors.New(errors.ErrCodeInvalidFormat,
			"count %d does not match %d positions and %d colors", d.Count, len(d.Positions), len(d.Colors))
	}
	for i, v := range d.Positions {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return errors.New(errors.ErrCodeInvalidFormat, "position %d is not finite", i)
		}
	}
	for i, v := range d.Colors {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return errors.New(errors.ErrCodeInvalidFormat, "color %d is not finite", i)
		}
	}
	if d.Profile != nil {
		if err := d.Profile.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "profile")
		}
	}
	return nil
}
