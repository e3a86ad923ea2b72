package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful in shared deployments where different users or projects
// need separate cache namespaces.
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(siteHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(siteHash, opts)
}

// EstimateKey generates a prefixed key for estimate caching.
func (k *ScopedKeyer) EstimateKey(opts EstimateKeyOpts) string {
	return k.prefix + k.inner.EstimateKey(opts)
}
