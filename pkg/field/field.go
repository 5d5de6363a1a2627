package field

import (
	"math"
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/observability"
)

// SettleEpsilon is the largest per-axis distance to the target at which
// a field counts as settled.
const SettleEpsilon = 1e-4

// State is the coarse animation state of a field.
type State int32

// Field states.
const (
	Uninitialized State = iota
	Morphing
	Settled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Morphing:
		return "morphing"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// InitMode selects how live positions start out.
type InitMode int

const (
	// InitSnap places every particle on its target.
	InitSnap InitMode = iota

	// InitEntrance scatters particles with SeedEntrance and lets them
	// morph in.
	InitEntrance
)

// Pointer is the pointer position in particle space.
type Pointer struct {
	X, Y float32
}

// NoPointer is far enough away to never push anything.
var NoPointer = Pointer{X: math.MaxFloat32, Y: math.MaxFloat32}

// PointerFromNDC maps normalized device coordinates in [-1, 1] onto a
// viewport of the given size in particle units.
func PointerFromNDC(nx, ny, viewWidth, viewHeight float32) Pointer {
	return Pointer{X: nx * viewWidth / 2, Y: ny * viewHeight / 2}
}

// Field is a live particle cloud. See the package documentation for which
// methods may be called concurrently.
type Field struct {
	profile Profile
	rand    Rand

	positions []float32
	colors    []float32

	target  atomic.Pointer[Buffer]
	applied *Buffer // target whose colors are in colors
	state   atomic.Int32

	grayscale   atomic.Bool
	appliedGray bool

	// ticks counts Tick calls since ticked became the target. Both are
	// only touched by Tick.
	ticks  int
	ticked *Buffer
}

// Option configures a Field.
type Option func(*Field)

// WithRand sets the random source used for entrance seeding.
func WithRand(r Rand) Option {
	return func(f *Field) {
		if r != nil {
			f.rand = r
		}
	}
}

// WithGrayscale starts the field with the grayscale filter enabled.
func WithGrayscale(on bool) Option {
	return func(f *Field) { f.grayscale.Store(on) }
}

// New creates an uninitialized field of count particles. The profile must
// be valid.
func New(count int, p Profile, opts ...Option) (*Field, error) {
	if err := errors.ValidatePositive("particle count", count); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f := &Field{
		profile:   p,
		positions: make([]float32, count*3),
		colors:    make([]float32, count*3),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rand == nil {
		f.rand = newRand()
	}
	return f, nil
}

// Len returns the particle count.
func (f *Field) Len() int { return len(f.positions) / 3 }

// Profile returns the tuning constants.
func (f *Field) Profile() Profile { return f.profile }

// SetProfile replaces the tuning constants. Call it between ticks.
func (f *Field) SetProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.profile = p
	return nil
}

// State returns the current animation state.
func (f *Field) State() State { return State(f.state.Load()) }

// Positions returns the live xyz triples. The slice is rewritten by Tick.
func (f *Field) Positions() []float32 { return f.positions }

// Colors returns the live display colors.
func (f *Field) Colors() []float32 { return f.colors }

// Target returns the buffer the field is morphing toward. It must not be
// modified.
func (f *Field) Target() (Buffer, bool) {
	t := f.target.Load()
	if t == nil {
		return Buffer{}, false
	}
	return *t, true
}

// Initialize installs the first target and positions the particles
// according to mode. When target has a different particle count the live
// buffers are reallocated, so Initialize must only run between ticks.
func (f *Field) Initialize(target Buffer, mode InitMode) error {
	if !target.Valid() || target.Len() == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "target buffer is empty or malformed")
	}
	n := target.Len() * 3
	if len(f.positions) != n {
		f.positions = make([]float32, n)
		f.colors = make([]float32, n)
	}

	t := target.Clone()
	switch mode {
	case InitEntrance:
		SeedEntrance(f.positions, f.rand)
	default:
		copy(f.positions, t.Positions)
	}
	f.target.Store(&t)
	f.syncColors(&t)
	f.state.Store(int32(Morphing))
	return nil
}

// SetTarget replaces the target with a copy of buf. Live positions keep
// their values and morph toward the new shape from wherever they are. It
// is safe to call from any goroutine, and fails with SIZE_MISMATCH when
// buf does not have exactly Len particles.
func (f *Field) SetTarget(buf Buffer) error {
	if !buf.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "target buffer is malformed")
	}
	if buf.Len() != f.Len() {
		return errors.New(errors.ErrCodeSizeMismatch,
			"target has %d particles, field has %d", buf.Len(), f.Len())
	}
	t := buf.Clone()
	f.target.Store(&t)
	f.state.Store(int32(Morphing))
	return nil
}

// SetGrayscale toggles the luma filter on display colors. The colors are
// recomputed from the target on the next tick without resampling.
func (f *Field) SetGrayscale(on bool) { f.grayscale.Store(on) }

// Grayscale reports whether the luma filter is enabled.
func (f *Field) Grayscale() bool { return f.grayscale.Load() }

// syncColors refreshes display colors when the target or the grayscale
// setting changed since the last call.
func (f *Field) syncColors(t *Buffer) {
	gray := f.grayscale.Load()
	if t == f.applied && gray == f.appliedGray {
		return
	}
	if gray {
		Grayscale(f.colors, t.Colors)
	} else {
		copy(f.colors, t.Colors)
	}
	f.applied = t
	f.appliedGray = gray
}

// Tick advances the animation by one frame. It runs in time linear in the
// particle count and does not allocate.
func (f *Field) Tick(p Pointer) {
	t := f.target.Load()
	if t == nil {
		return
	}
	f.syncColors(t)
	if t != f.ticked {
		f.ticked, f.ticks = t, 0
	}
	f.ticks++

	var (
		pos      = f.positions
		tgt      = t.Positions
		radius   = f.profile.InfluenceRadius
		strength = f.profile.Strength
		alpha    = f.profile.MorphSpeed
		maxDelta float32
	)
	for i := 0; i+2 < len(pos) && i+2 < len(tgt); i += 3 {
		x, y, z := pos[i], pos[i+1], pos[i+2]
		tx, ty, tz := tgt[i], tgt[i+1], tgt[i+2]

		dx, dy := x-p.X, y-p.Y
		if dist := math32.Sqrt(dx*dx + dy*dy); dist < radius && dist > 0.01 {
			force := (1 - dist/radius) * strength
			tx += dx / dist * force
			ty += dy / dist * force
		}

		x += (tx - x) * alpha
		y += (ty - y) * alpha
		z += (tz - z) * alpha
		pos[i], pos[i+1], pos[i+2] = x, y, z

		maxDelta = max(maxDelta,
			math32.Abs(tgt[i]-x), math32.Abs(tgt[i+1]-y), math32.Abs(tz-z))
	}

	switch {
	case maxDelta >= SettleEpsilon:
		f.state.Store(int32(Morphing))
	case f.target.Load() == t:
		// A target installed during this tick keeps the field morphing.
		if f.state.CompareAndSwap(int32(Morphing), int32(Settled)) {
			observability.Field().OnSettled(f.ticks)
		}
	}
}
