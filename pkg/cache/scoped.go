package cache

import "github.com/flickergrid/flickergrid/pkg/display"

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one Redis instance without reading each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lab-a:")
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

// DesignKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) DesignKey(opts display.Options, seed uint64) string {
	return k.prefix + k.inner.DesignKey(opts, seed)
}

// ArtifactKey generates a prefixed key for preview caching.
func (k *ScopedKeyer) ArtifactKey(designText string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(designText, opts)
}
