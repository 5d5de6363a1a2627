package sample

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/glyphdust/pkg/errors"
)

// MaxImageBytes bounds the size of an encoded image accepted by
// DecodeImage.
const MaxImageBytes = 32 << 20

// MaxImagePixels bounds the canvas an image may declare. The header is
// checked before decoding, so a small file claiming a huge canvas is
// rejected without allocating it.
const MaxImagePixels = 1 << 25

// Decodable lists the sniffed extensions DecodeImage accepts.
var Decodable = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"tif":  true,
}

// DecodeImage sniffs and decodes an encoded raster image.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeDecodeFailed, err, "read image")
	}
	if len(data) > MaxImageBytes {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "image larger than %d bytes", MaxImageBytes)
	}
	return DecodeImageBytes(data)
}

// DecodeImageBytes is DecodeImage for an in-memory image. It returns the
// sniffed extension alongside the image.
func DecodeImageBytes(data []byte) (image.Image, string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, "", errors.New(errors.ErrCodeUnsupportedFormat, "unrecognized image data")
	}
	if !Decodable[kind.Extension] {
		return nil, kind.Extension, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported image type %s", kind.MIME.Value)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, kind.Extension, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s header", kind.Extension)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, kind.Extension, errors.New(errors.ErrCodeDecodeFailed, "image has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, kind.Extension, errors.New(errors.ErrCodeInvalidInput,
			"image is %dx%d, more than %d pixels", cfg.Width, cfg.Height, MaxImagePixels)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, kind.Extension, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", kind.Extension)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, kind.Extension, errors.New(errors.ErrCodeDecodeFailed, "image has no pixels")
	}
	return img, kind.Extension, nil
}
