package sample

import (
	"math"

	"github.com/matzehuels/glyphdust/pkg/errors"
)

// ColorBoost scales normalized channels before the final clamp.
const ColorBoost = 1.5

// Tone is the per-pixel color adjustment applied to image particles.
type Tone struct {
	// Contrast in [-100, 100]; 0 leaves channels unchanged.
	Contrast float64 `json:"contrast" toml:"contrast"`

	// Brightness in [-100, 100], added to every channel.
	Brightness float64 `json:"brightness" toml:"brightness"`

	// Tint multiplies channels by a color when set.
	Tint *[3]uint8 `json:"tint,omitempty" toml:"-"`
}

// Validate checks that contrast and brightness are within range.
func (t Tone) Validate() error {
	if math.IsNaN(t.Contrast) || t.Contrast < -100 || t.Contrast > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "contrast must be in [-100, 100], got %v", t.Contrast)
	}
	if math.IsNaN(t.Brightness) || t.Brightness < -100 || t.Brightness > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "brightness must be in [-100, 100], got %v", t.Brightness)
	}
	return nil
}

// ParseTint reads a "#rrggbb" or "#rgb" tint. An empty string means no
// tint.
func ParseTint(s string) (*[3]uint8, error) {
	if s == "" {
		return nil, nil
	}
	r, g, b, err := errors.ParseHexColor(s)
	if err != nil {
		return nil, err
	}
	return &[3]uint8{r, g, b}, nil
}

// factor is the contrast multiplier around mid-gray.
func (t Tone) factor() float64 {
	return 259 * (t.Contrast + 255) / (255 * (259 - t.Contrast))
}

// Apply maps an 8-bit color to normalized output channels: contrast,
// brightness, tint, clamp to [0, 255], then boost and clamp to 1.
func (t Tone) Apply(r, g, b uint8) (float32, float32, float32) {
	f := t.factor()
	return t.channel(f, r, 0), t.channel(f, g, 1), t.channel(f, b, 2)
}

func (t Tone) channel(f float64, v uint8, i int) float32 {
	x := f*(float64(v)-128) + 128 + t.Brightness
	if t.Tint != nil {
		x = x * float64(t.Tint[i]) / 255
	}
	x = math.Max(0, math.Min(255, x))
	return float32(math.Min(1, x/255*ColorBoost))
}
