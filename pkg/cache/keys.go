package cache

// keyVersion is bumped whenever the cached result format changes.
const keyVersion = "v1"

// ExtractKeyOpts holds the options that affect an extraction result.
type ExtractKeyOpts struct {
	DevicePrefix   string `json:"device_prefix"`
	PolarityMarker string `json:"polarity_marker"`
	Direction      string `json:"direction"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ExtractKey returns the key of the extraction result for a netlist with
	// the given content hash.
	ExtractKey(netlistHash string, opts ExtractKeyOpts) string
}

// DefaultKeyer produces keys of the form "extract:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ExtractKey implements Keyer.
func (DefaultKeyer) ExtractKey(netlistHash string, opts ExtractKeyOpts) string {
	return hashKey("extract", keyVersion, netlistHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, keeping the entries of
// different callers (CLI, HTTP server) apart in a shared cache directory.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ExtractKey implements Keyer.
func (k *ScopedKeyer) ExtractKey(netlistHash string, opts ExtractKeyOpts) string {
	return k.prefix + k.inner.ExtractKey(netlistHash, opts)
}
