package field

import "math"

// Buffer holds per-particle positions and colors as flat xyz and rgb
// triples. Particle i occupies indices 3i, 3i+1 and 3i+2 of both slices.
type Buffer struct {
	Positions []float32 `json:"positions"`
	Colors    []float32 `json:"colors"`
}

// NewBuffer allocates a zeroed buffer for n particles.
func NewBuffer(n int) Buffer {
	if n < 0 {
		n = 0
	}
	return Buffer{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
	}
}

// Len returns the number of particles.
func (b Buffer) Len() int { return len(b.Positions) / 3 }

// Valid reports whether both slices hold the same whole number of triples.
func (b Buffer) Valid() bool {
	return len(b.Positions)%3 == 0 && len(b.Positions) == len(b.Colors)
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	return Buffer{
		Positions: append([]float32(nil), b.Positions...),
		Colors:    append([]float32(nil), b.Colors...),
	}
}

// Fill sets every color to (r, g, b).
func (b Buffer) Fill(r, g, bl float32) {
	for i := 0; i+2 < len(b.Colors); i += 3 {
		b.Colors[i], b.Colors[i+1], b.Colors[i+2] = r, g, bl
	}
}

// Bounds returns the per-axis minimum and maximum of the positions. An
// empty buffer yields zero vectors.
func (b Buffer) Bounds() (lo, hi [3]float32) {
	if len(b.Positions) < 3 {
		return lo, hi
	}
	for k := 0; k < 3; k++ {
		lo[k] = math.MaxFloat32
		hi[k] = -math.MaxFloat32
	}
	for i := 0; i+2 < len(b.Positions); i += 3 {
		for k := 0; k < 3; k++ {
			v := b.Positions[i+k]
			lo[k] = min(lo[k], v)
			hi[k] = max(hi[k], v)
		}
	}
	return lo, hi
}

// Grayscale writes the luma of each src color to dst, replicated across
// the three channels. dst and src may be the same slice. Applying it twice
// gives the same result as applying it once.
func Grayscale(dst, src []float32) {
	for i := 0; i+2 < len(src) && i+2 < len(dst); i += 3 {
		l := Luma(src[i], src[i+1], src[i+2])
		dst[i], dst[i+1], dst[i+2] = l, l, l
	}
}

// Luma returns 0.299r + 0.587g + 0.114b.
func Luma(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}
