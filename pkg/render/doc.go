// Package render draws particle clouds.
//
// # Overview
//
// Renderers consume a [Frame]: the positions and colors of a field plus
// the style it is shown with (sprite shape, point size, opacity and
// whether light adds up). They never modify the frame, so a frame taken
// between two ticks can be drawn while the next tick runs on a copy.
//
//   - [Rasterize] and [RenderPNG]: software rasterizer with sprite masks
//   - [RenderSVG]: one SVG element per particle
//   - [Braille]: terminal output, two by four dots per character cell
//
// # Camera
//
// [Camera] is a perspective camera on the z axis looking at the origin.
// Point sizes are attenuated by depth the way WebGL point sprites are:
// the on-screen diameter is size * height / 2 / depth. [Camera.Pointer]
// maps a pixel back to the z = 0 plane for use as a field pointer.
//
//	cam := render.NewCamera(render.IconDistance, 800, 600)
//	png, err := render.RenderPNG(render.IconFrame(f.Positions(), f.Colors()), cam)
//
// # Sprites
//
// [Sprite] rasterizes the particle shapes on a 32 unit canvas: a filled
// circle of radius 14, a ring of radius 12 stroked 4 wide, and a square
// inset by 2. Masks are cached per pixel size.
package render
