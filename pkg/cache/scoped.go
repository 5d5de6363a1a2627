package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several configurations
// or tenants can share one backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// IconKey generates a prefixed key for icon conversions.
func (k *ScopedKeyer) IconKey(markupHash string, opts IconKeyOpts) string {
	return k.prefix + k.inner.IconKey(markupHash, opts)
}

// ImageKey generates a prefixed key for image conversions.
func (k *ScopedKeyer) ImageKey(imageHash string, opts ImageKeyOpts) string {
	return k.prefix + k.inner.ImageKey(imageHash, opts)
}
