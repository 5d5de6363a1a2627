//go:build !nowindow

package cli

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
	"github.com/matzehuels/glyphdust/pkg/render"
)

// windowCommand creates the desktop window preview command.
func (c *CLI) windowCommand() *cobra.Command {
	var (
		flags optionFlags
		watch bool
		w, h  int
	)

	cmd := &cobra.Command{
		Use:   "window [file]",
		Short: "Animate an icon or image in a desktop window",
		Long: `Animate an icon or image in a desktop window.

The mouse is the pointer. Keys: g toggles grayscale, r resamples, escape
closes the window. With --watch the file is converted again whenever it is
saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeRunner, err := c.openLive(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			defer closeRunner()

			g, err := newWindowGame(src, w, h)
			if err != nil {
				return err
			}
			if watch {
				if err := watchFile(cmd.Context(), args[0], c.Logger, g.reload); err != nil {
					return fmt.Errorf("watch %s: %w", args[0], err)
				}
			}
			go g.load(false)

			ebiten.SetWindowTitle("glyphdust · " + args[0])
			ebiten.SetWindowSize(w, h)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetTPS(60)
			return ebiten.RunGame(g)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the file when it changes")
	cmd.Flags().IntVar(&w, "width", pipeline.DefaultWidth, "window width")
	cmd.Flags().IntVar(&h, "height", pipeline.DefaultHeight, "window height")
	flags.bindAll(cmd)

	return cmd
}

// windowGame is the ebiten game of the window preview. Update is its frame
// loop and the only place the field is touched.
type windowGame struct {
	src      *liveSource
	field    *field.Field
	style    render.Frame
	distance float32
	cam      render.Camera
	canvas   *ebiten.Image
}

func newWindowGame(src *liveSource, w, h int) (*windowGame, error) {
	f, err := src.newField()
	if err != nil {
		return nil, err
	}
	style, distance := src.style()
	return &windowGame{
		src:      src,
		field:    f,
		style:    style,
		distance: distance,
		cam:      render.NewCamera(distance, w, h),
	}, nil
}

// load converts the file and offers the result to the installer.
func (g *windowGame) load(refresh bool) {
	_ = g.src.begin(refresh)()
}

// reload is called by the file watcher.
func (g *windowGame) reload() {
	go g.load(false)
}

func (g *windowGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.field.SetGrayscale(!g.field.Grayscale())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.src.reseed()
		go g.load(true)
	}

	if _, err := g.src.install.Apply(g.field); err != nil {
		return err
	}

	p := field.NoPointer
	if mx, my := ebiten.CursorPosition(); mx >= 0 && my >= 0 && mx < g.cam.Width && my < g.cam.Height {
		p = g.cam.Pointer(float32(mx), float32(my))
	}
	g.field.Tick(p)
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.field.State() == field.Uninitialized {
		screen.Fill(render.Background)
		return
	}
	img := render.Rasterize(render.FieldFrame(g.field, g.style), g.cam)
	if g.canvas == nil || g.canvas.Bounds() != img.Bounds() {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
	}
	g.canvas.WritePixels(img.Pix)
	screen.DrawImage(g.canvas, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.cam = render.NewCamera(g.distance, outsideWidth, outsideHeight)
	}
	return g.cam.Width, g.cam.Height
}

var _ ebiten.Game = (*windowGame)(nil)
