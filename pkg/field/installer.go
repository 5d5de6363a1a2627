package field

import (
	"sync"

	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/observability"
)

// Ticket identifies one conversion request handed out by an Installer.
type Ticket uint64

// Installer is a single-slot mailbox between background conversions and
// the frame loop. Only the result of the newest request is kept: results
// offered for older tickets are dropped, even if they arrive last.
type Installer struct {
	mu      sync.Mutex
	issued  Ticket
	pending *Buffer
	mode    InitMode
	resize  bool
	always  bool
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithResize lets Apply reinitialize the field when a result has a
// different particle count, seeding it with mode. Without it such results
// are rejected.
func WithResize(mode InitMode) InstallerOption {
	return func(in *Installer) {
		in.resize = true
		in.mode = mode
	}
}

// WithReinitialize makes every applied result restart the animation with
// mode, as the image preview does on each load.
func WithReinitialize(mode InitMode) InstallerOption {
	return func(in *Installer) {
		in.always = true
		in.resize = true
		in.mode = mode
	}
}

// NewInstaller creates an empty installer.
func NewInstaller(opts ...InstallerOption) *Installer {
	in := &Installer{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Begin starts a request and returns its ticket. Any result still pending
// from an older request is discarded.
func (in *Installer) Begin() Ticket {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.issued++
	in.pending = nil
	return in.issued
}

// Offer stores buf as the result of ticket. It reports false and keeps
// nothing when a newer request has been started since.
func (in *Installer) Offer(t Ticket, buf Buffer) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t != in.issued {
		observability.Field().OnTargetDropped("superseded")
		return false
	}
	in.pending = &buf
	return true
}

// Pending reports whether a result is waiting to be applied.
func (in *Installer) Pending() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pending != nil
}

// Apply installs the pending result into f, if any, and reports whether
// something was installed. It must be called from the frame loop between
// ticks. An uninitialized field is initialized with the installer's mode.
func (in *Installer) Apply(f *Field) (bool, error) {
	in.mu.Lock()
	buf := in.pending
	in.pending = nil
	in.mu.Unlock()
	if buf == nil {
		return false, nil
	}

	var err error
	resized := buf.Len() != f.Len()
	switch {
	case f.State() == Uninitialized || in.always:
		err = f.Initialize(*buf, in.mode)
	case resized && in.resize:
		err = f.Initialize(*buf, in.mode)
	case resized:
		observability.Field().OnTargetDropped("size mismatch")
		return false, errors.New(errors.ErrCodeSizeMismatch,
			"result has %d particles, field has %d", buf.Len(), f.Len())
	default:
		err = f.SetTarget(*buf)
	}
	if err != nil {
		observability.Field().OnTargetDropped("invalid")
		return true, err
	}
	observability.Field().OnTargetInstalled(buf.Len(), resized)
	return true, nil
}
