package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without seeing each other's entries:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// MergeKey generates a prefixed key for flatten results.
func (k *ScopedKeyer) MergeKey(treeHash string, opts MergeKeyOpts) string {
	return k.prefix + k.inner.MergeKey(treeHash, opts)
}

// CheckKey generates a prefixed key for readiness reports.
func (k *ScopedKeyer) CheckKey(treeHash string, opts CheckKeyOpts) string {
	return k.prefix + k.inner.CheckKey(treeHash, opts)
}
