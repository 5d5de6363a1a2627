package sample

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/glyphdust/pkg/errors"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 2, color.NRGBA{1, 2, 3, 255})); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	img, ext, err := DecodeImage(bytes.NewReader(encodePNG(t)))
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if ext != "png" {
		t.Errorf("ext = %q, want png", ext)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}
}

func TestDecodeImageErrors(t *testing.T) {
	truncated := encodePNG(t)[:20]
	tests := []struct {
		name string
		data []byte
		code errors.Code
	}{
		{"empty", nil, errors.ErrCodeUnsupportedFormat},
		{"text", []byte("definitely not an image"), errors.ErrCodeUnsupportedFormat},
		{"pdf", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), errors.ErrCodeUnsupportedFormat},
		{"truncated png", truncated, errors.ErrCodeDecodeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeImage(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeImage() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestDecodeImageTooLarge(t *testing.T) {
	r := strings.NewReader(strings.Repeat("x", MaxImageBytes+1))
	if _, _, err := DecodeImage(r); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("DecodeImage() error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

// declareCanvas rewrites the IHDR chunk of a PNG to claim a w x h canvas
// while leaving the pixel data small.
func declareCanvas(data []byte, w, h uint32) []byte {
	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:], w)
	binary.BigEndian.PutUint32(out[20:], h)
	binary.BigEndian.PutUint32(out[29:], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecodeImageCanvasBound(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
		code errors.Code
	}{
		{"20000 square", 20000, 20000, errors.ErrCodeInvalidInput},
		{"one row too wide", MaxImagePixels + 1, 1, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeImageBytes(declareCanvas(encodePNG(t), tt.w, tt.h))
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeImageBytes(%dx%d) error = %v, want code %v", tt.w, tt.h, err, tt.code)
			}
		})
	}
}
