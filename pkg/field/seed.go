package field

import (
	"math"
	"math/rand/v2"
)

// Rand is the random source used for entrance seeding.
type Rand interface {
	Float64() float64
}

// spread returns a uniform value in [-x/2, x/2).
func spread(r Rand, x float64) float32 {
	return float32((r.Float64() - 0.5) * x)
}

// SeedEntrance scatters positions over a ring-shaped disk of radius up to
// 1.5 around the origin with a thin z spread, the start of an entrance
// animation.
func SeedEntrance(positions []float32, r Rand) {
	for i := 0; i+2 < len(positions); i += 3 {
		angle := float64(spread(r, 2*math.Pi))
		radius := float64(spread(r, 3))
		positions[i] = float32(math.Cos(angle) * radius)
		positions[i+1] = float32(math.Sin(angle) * radius)
		positions[i+2] = spread(r, 0.5)
	}
}

func newRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func ceilLog(eps, base float64) float64 {
	return math.Ceil(math.Log(eps) / math.Log(base))
}
