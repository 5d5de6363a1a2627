package field

import (
	"github.com/matzehuels/glyphdust/pkg/errors"
)

// DefaultMorphSpeed is the smoothing factor α applied every tick.
const DefaultMorphSpeed = 0.08

// Profile holds the tuning constants of a field.
type Profile struct {
	// InfluenceRadius is the pointer distance below which particles are
	// pushed.
	InfluenceRadius float32 `json:"influence_radius" toml:"influence_radius"`

	// Strength scales the push. Zero disables it.
	Strength float32 `json:"strength" toml:"strength"`

	// MorphSpeed is the fraction of the remaining distance covered per
	// tick, in (0, 1].
	MorphSpeed float32 `json:"morph_speed" toml:"morph_speed"`
}

// Deployment profiles.
var (
	// IconProfile is used for morphing icons. The push is kept but dormant.
	IconProfile = Profile{InfluenceRadius: 1.2, Strength: 0, MorphSpeed: DefaultMorphSpeed}

	// ImageProfile is used for image previews, where the push is felt.
	ImageProfile = Profile{InfluenceRadius: 0.5, Strength: 0.2, MorphSpeed: DefaultMorphSpeed}
)

// Validate reports the first constant outside its range.
func (p Profile) Validate() error {
	if err := errors.ValidateNonNegative("influence_radius", float64(p.InfluenceRadius)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("strength", float64(p.Strength)); err != nil {
		return err
	}
	return errors.ValidateUnitInterval("morph_speed", float64(p.MorphSpeed))
}

// TicksToConverge returns how many ticks shrink any initial distance by
// the factor eps when no push is active: ceil(log(eps) / log(1-α)).
func (p Profile) TicksToConverge(eps float64) int {
	a := float64(p.MorphSpeed)
	if a >= 1 {
		return 1
	}
	return int(ceilLog(eps, 1-a))
}
