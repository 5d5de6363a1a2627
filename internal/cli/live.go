package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
	"github.com/matzehuels/glyphdust/pkg/render"
)

// liveSource converts an input file in the background and hands each
// result to a field's installer. It backs the interactive previews.
type liveSource struct {
	ctx     context.Context
	runner  *pipeline.Runner
	path    string
	install *field.Installer

	mu   sync.Mutex
	opts pipeline.Options
}

// loadResult summarizes one background conversion.
type loadResult struct {
	ticket  field.Ticket
	stats   convertStats
	offered bool
	elapsed time.Duration
	err     error
}

func newLiveSource(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) *liveSource {
	// Images restart their entrance on every load; icons morph between
	// shapes of the same size.
	mode := field.WithResize(field.InitEntrance)
	if opts.IsImage() {
		mode = field.WithReinitialize(field.InitEntrance)
	}
	return &liveSource{
		ctx:     ctx,
		runner:  runner,
		path:    path,
		install: field.NewInstaller(mode),
		opts:    opts,
	}
}

// newField creates the field the source installs into. It starts empty and
// is sized by the first result.
func (s *liveSource) newField() (*field.Field, error) {
	opts := s.options()
	return field.New(1, opts.Profile(),
		field.WithRand(opts.Rand()),
		field.WithGrayscale(opts.Grayscale))
}

func (s *liveSource) options() pipeline.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// style returns the render style and camera distance for the source.
func (s *liveSource) style() (render.Frame, float32) {
	opts := s.options()
	d := float32(render.IconDistance)
	if opts.IsImage() {
		d = render.ImageDistance
	}
	return opts.Frame(field.Buffer{}), d
}

// reseed picks a new sampling seed, so the next load redraws the icon.
func (s *liveSource) reseed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Seed = uint64(time.Now().UnixNano())
}

// begin claims a ticket now and returns the conversion to run later. Only
// the newest ticket's result reaches the field.
func (s *liveSource) begin(refresh bool) func() loadResult {
	s.mu.Lock()
	ticket := s.install.Begin()
	opts := s.opts
	s.mu.Unlock()
	opts.Refresh = refresh

	return func() loadResult {
		start := time.Now()
		res := loadResult{ticket: ticket}
		data, err := readInput(s.path)
		if err != nil {
			res.err = fmt.Errorf("read %s: %w", s.path, err)
			return res
		}
		setInput(&opts, data)
		conv, hit, err := s.runner.ConvertWithCacheInfo(s.ctx, opts)
		res.elapsed = time.Since(start)
		if err != nil {
			res.err = err
			return res
		}
		res.stats = convertStats{
			particles: conv.Buffer.Len(),
			subpaths:  conv.Subpaths,
			segments:  conv.Segments,
			cached:    hit,
			fallback:  conv.Fallback,
		}
		res.offered = s.install.Offer(ticket, conv.Buffer)
		return res
	}
}
