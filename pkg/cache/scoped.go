package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without key collisions, for example one Redis instance serving
// both the HTTP API and a local CLI.
//
// Example usage:
//
//	// Per-store keys for an edited dataset directory
//	storeKeyer := NewScopedKeyer(NewDefaultKeyer(), "store:lab42:")
//
//	// Global keys for the shipped defaults
//	globalKeyer := NewDefaultKeyer()
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

// DatasetKey generates a prefixed key for dataset snapshot caching.
func (k *ScopedKeyer) DatasetKey(category, fingerprint string) string {
	return k.prefix + k.inner.DatasetKey(category, fingerprint)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
