package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// keyVersion is part of every derived key. Bump it when the cached
// document layout changes so stale entries are never decoded.
const keyVersion = 1

// Keyer derives cache keys for conversions.
type Keyer interface {
	// IconKey returns the key of a markup conversion.
	IconKey(markupHash string, opts IconKeyOpts) string

	// ImageKey returns the key of an image conversion.
	ImageKey(imageHash string, opts ImageKeyOpts) string
}

// IconKeyOpts lists the options that change an icon conversion.
type IconKeyOpts struct {
	Count        int     `json:"count"`
	Depth        float64 `json:"depth"`
	Seed         uint64  `json:"seed"`
	Exact        bool    `json:"exact"`
	CurveSamples int     `json:"curve_samples"`
	ArcSamples   int     `json:"arc_samples"`
}

// ImageKeyOpts lists the options that change an image conversion.
type ImageKeyOpts struct {
	MaxDimension   int     `json:"max_dimension"`
	AlphaThreshold int     `json:"alpha_threshold"`
	Scale          float64 `json:"scale"`
	Contrast       float64 `json:"contrast"`
	Brightness     float64 `json:"brightness"`
	Tint           string  `json:"tint"`
}

// DefaultKeyer produces keys of the form "<kind>:v<version>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// IconKey implements Keyer.
func (DefaultKeyer) IconKey(markupHash string, opts IconKeyOpts) string {
	return deriveKey("icon", markupHash, opts)
}

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(imageHash string, opts ImageKeyOpts) string {
	return deriveKey("image", imageHash, opts)
}

// Hash returns the hex SHA-256 digest of an input payload. Callers hash
// markup or image bytes once and hand the digest to a Keyer.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// deriveKey digests the input hash together with the options. The kind is
// mixed into the digest as well, so an icon and an image with equal inputs
// never share a suffix.
func deriveKey(kind, inputHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(inputHash))
	h.Write([]byte{0})
	// Option structs hold plain scalars; Marshal cannot fail on them.
	optJSON, _ := json.Marshal(opts)
	h.Write(optJSON)
	return kind + ":v" + strconv.Itoa(keyVersion) + ":" + hex.EncodeToString(h.Sum(nil))
}

var _ Keyer = DefaultKeyer{}
