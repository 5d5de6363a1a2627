package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/render"
)

const (
	// previewFPS is the terminal frame rate.
	previewFPS = 30

	// Pointer spring: quick but without overshoot.
	pointerFrequency = 6.0
	pointerDamping   = 1.0
)

// previewCommand creates the terminal preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags optionFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Animate an icon or image in the terminal",
		Long: `Animate an icon or image in the terminal with braille characters.

Move the mouse or use the arrow keys to push particles around (images react
by default; icons need --strength). Keys:

  g        toggle grayscale
  r        resample with a new seed
  p        toggle the pointer
  q, esc   quit

With --watch the file is converted again whenever it is saved and the
particles morph into the new shape.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args[0], &flags, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the file when it changes")
	flags.bindAll(cmd)

	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, path string, flags *optionFlags, watch bool) error {
	ctx := cmd.Context()
	src, closeRunner, err := c.openLive(cmd, path, flags)
	if err != nil {
		return err
	}
	defer closeRunner()

	// The alternate screen owns the terminal; log lines would tear it.
	quiet := discardLogger()
	m, err := newPreviewModel(src, quiet)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if watch {
		if err := watchFile(ctx, path, quiet, func() { p.Send(fileChangedMsg{}) }); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	_, err = p.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Model
// =============================================================================

type (
	frameMsg       time.Time
	fileChangedMsg struct{}
	loadedMsg      loadResult
)

// previewModel is the bubbletea model of the terminal preview. Its field is
// only touched from Update, which is the frame loop.
type previewModel struct {
	src      *liveSource
	logger   *log.Logger
	field    *field.Field
	style    render.Frame
	distance float32

	cols, rows int

	// Pointer in braille dots: smoothed position, velocity and target.
	spring           harmonica.Spring
	px, py, vx, vy   float64
	tx, ty           float64
	pointer, pending bool

	stats  convertStats
	status string
}

func newPreviewModel(src *liveSource, logger *log.Logger) (previewModel, error) {
	f, err := src.newField()
	if err != nil {
		return previewModel{}, err
	}
	style, distance := src.style()
	return previewModel{
		src:      src,
		logger:   logger,
		field:    f,
		style:    style,
		distance: distance,
		cols:     80,
		rows:     24,
		spring:   harmonica.NewSpring(harmonica.FPS(previewFPS), pointerFrequency, pointerDamping),
		pending:  true,
		status:   "converting...",
	}, nil
}

func (m previewModel) Init() tea.Cmd {
	return tea.Batch(m.load(false), nextFrame())
}

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/previewFPS, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// load claims a ticket and converts in the background.
func (m previewModel) load(refresh bool) tea.Cmd {
	run := m.src.begin(refresh)
	return func() tea.Msg { return loadedMsg(run()) }
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.tx, m.ty = float64(msg.X*2+1), float64(msg.Y*4+2)
		if !m.pointer {
			m.px, m.py = m.tx, m.ty
			m.pointer = true
		}

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-1, 1)
		m.tx = min(m.tx, float64(m.cols*2))
		m.ty = min(m.ty, float64(m.rows*4))

	case fileChangedMsg:
		m.pending = true
		m.status = "reloading..."
		return m, m.load(false)

	case loadedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			m.logger.Debug("conversion failed", "error", msg.err)
			return m, nil
		}
		if msg.offered {
			m.stats = msg.stats
			m.status = fmt.Sprintf("converted in %s", msg.elapsed.Round(time.Millisecond))
		}

	case frameMsg:
		m.step()
		return m, nextFrame()
	}
	return m, nil
}

func (m previewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "g":
		m.field.SetGrayscale(!m.field.Grayscale())
	case "r":
		m.src.reseed()
		m.pending = true
		m.status = "resampling..."
		return m, m.load(true)
	case "p":
		m.pointer = !m.pointer
	case "left", "h":
		m.nudge(-2, 0)
	case "right", "l":
		m.nudge(2, 0)
	case "up", "k":
		m.nudge(0, -4)
	case "down", "j":
		m.nudge(0, 4)
	}
	return m, nil
}

// nudge moves the pointer target by whole cells, starting from the center
// when the pointer was off.
func (m *previewModel) nudge(dx, dy float64) {
	if !m.pointer {
		m.tx, m.ty = float64(m.cols), float64(m.rows*2)
		m.px, m.py = m.tx, m.ty
		m.vx, m.vy = 0, 0
		m.pointer = true
	}
	m.tx += dx
	m.ty += dy
}

// step installs a pending result, eases the pointer and advances the field
// by one tick.
func (m *previewModel) step() {
	if _, err := m.src.install.Apply(m.field); err != nil {
		m.status = "error: " + err.Error()
	}
	m.px, m.vx = m.spring.Update(m.px, m.vx, m.tx)
	m.py, m.vy = m.spring.Update(m.py, m.vy, m.ty)

	p := field.NoPointer
	if m.pointer {
		cam := render.BrailleCamera(m.distance, m.cols, m.rows)
		p = cam.Pointer(float32(m.px), float32(m.py))
	}
	m.field.Tick(p)
}

func (m previewModel) View() string {
	var b strings.Builder
	if m.field.State() == field.Uninitialized {
		b.WriteString(strings.Repeat("\n", m.rows))
	} else {
		b.WriteString(render.Braille(render.FieldFrame(m.field, m.style), m.cols, m.rows, m.distance))
		b.WriteByte('\n')
	}
	b.WriteString(m.statusBar())
	return b.String()
}

func (m previewModel) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d particles", m.field.Len()),
		m.field.State().String(),
	}
	if m.field.Grayscale() {
		parts = append(parts, "gray")
	}
	if m.stats.cached {
		parts = append(parts, iconCached)
	}
	if m.stats.fallback {
		parts = append(parts, iconFallback)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	keys := styleBarKey.Render("g") + " gray " + styleBarKey.Render("r") + " resample " +
		styleBarKey.Render("p") + " pointer " + styleBarKey.Render("q") + " quit"
	return styleBar.Render(strings.Join(parts, " · ")) + "  " + keys
}

// openLive loads the config, resolves options for the file's source and
// creates the live source. The returned func closes the runner.
func (c *CLI) openLive(cmd *cobra.Command, path string, flags *optionFlags) (*liveSource, func(), error) {
	ctx := cmd.Context()
	if path == stdinName {
		return nil, nil, fmt.Errorf("live previews need a file, not stdin")
	}
	data, err := readInput(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts := flags.options(cmd, cfg, detectSource(data))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	opts.Logger = discardLogger()

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize runner: %w", err)
	}
	closeRunner := func() { _ = runner.Close() }
	return newLiveSource(ctx, runner, path, opts), closeRunner, nil
}
