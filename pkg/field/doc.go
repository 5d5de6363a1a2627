// Package field animates a fixed-size particle cloud toward a target shape.
//
// A [Field] owns the live positions and display colors of N particles and
// the [Buffer] they are currently morphing toward. Every [Field.Tick] moves
// each particle a fixed fraction of the way to its target (exponential
// smoothing) and, when the pointer is near, shifts the target sideways so
// the particle is pushed away:
//
//	dist  = |particle.xy - pointer|
//	force = (1 - dist/radius) * strength     if 0.01 < dist < radius
//	pos   = lerp(pos, target + dir*force, α) per axis, z never pushed
//
// The constants come from a [Profile]. [IconProfile] keeps the push
// dormant (zero strength); [ImageProfile] makes it felt.
//
// # Target swaps
//
// [Field.SetTarget] copies the new shape into a fresh buffer and swaps it
// in atomically, so it may be called from any goroutine. Live positions are
// untouched: particles simply start heading somewhere else on the next
// tick. A target with a different particle count is rejected; use
// [Field.Initialize] from the frame loop to change the count.
//
// All other methods, including Tick, belong to the goroutine that drives
// the frame loop. Renderers read [Field.Positions] and [Field.Colors] after
// Tick returns.
//
// # Concurrent conversions
//
// Conversions run off the frame loop and may finish out of order. An
// [Installer] hands out increasing tickets and keeps only the result of
// the newest request, which the frame loop installs between ticks:
//
//	ticket := inst.Begin()
//	go func() { inst.Offer(ticket, convert()) }()
//	// in the frame loop:
//	inst.Apply(f)
//	f.Tick(pointer)
package field
