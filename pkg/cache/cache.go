// Package cache provides content-addressed caching for computed layouts
// and estimates.
//
// Placement runs are deterministic, so a layout is fully identified by
// the hash of its site polygon plus the configuration options. The CLI
// uses a file-backed cache under the XDG cache directory; the API tier
// can share a Redis-backed cache; tests and one-shot runs use the null
// cache.
package cache

import (
	"context"
	"time"
)

// Cache TTLs per payload kind. Layouts are deterministic and could live
// forever; the TTLs bound file cache growth on long-lived installs.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLEstimate = 7 * 24 * time.Hour
)

// Cache is the storage interface for cached byte payloads.
type Cache interface {
	// Get retrieves a value. The second return reports a cache hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (zero means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// LayoutKeyOpts are the configuration inputs that determine a layout.
// Any change to these must produce a different cache key.
type LayoutKeyOpts struct {
	Latitude     float64 `json:"latitude"`
	ModuleLength float64 `json:"module_length"`
	ModuleWidth  float64 `json:"module_width"`
	ModulePower  float64 `json:"module_power"`
	TiltAngle    float64 `json:"tilt_angle"`
	WalkwayWidth float64 `json:"walkway_width"`
	Margin       float64 `json:"margin"`
}

// EstimateKeyOpts are the inputs that determine an optimizer estimate.
type EstimateKeyOpts struct {
	SiteArea  float64 `json:"site_area"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Power     float64 `json:"power"`
	TargetGCR float64 `json:"target_gcr"`
	Latitude  float64 `json:"latitude"`
	TiltAngle float64 `json:"tilt_angle"`
}

// Keyer generates cache keys for the different cached computations.
type Keyer interface {
	// LayoutKey generates a key for a placement result, keyed by the
	// site polygon hash and the layout options.
	LayoutKey(siteHash string, opts LayoutKeyOpts) string

	// EstimateKey generates a key for an optimizer estimate.
	EstimateKey(opts EstimateKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a placement result.
func (k *DefaultKeyer) LayoutKey(siteHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", siteHash, opts)
}

// EstimateKey generates a key for an optimizer estimate.
func (k *DefaultKeyer) EstimateKey(opts EstimateKeyOpts) string {
	return hashKey("estimate", opts)
}
