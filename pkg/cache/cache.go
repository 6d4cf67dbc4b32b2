package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Dataset snapshots churn with edits and
// expire quickly; layouts and rendered artifacts are pure functions of their
// inputs and can live longer.
const (
	DatasetTTL  = 1 * time.Hour
	LayoutTTL   = 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs that change a computed layout.
type LayoutKeyOpts struct {
	Mode         string
	Width        float64
	Height       float64
	Filters      string
	SortProperty string
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format       string
	FillProperty string
	SizeProperty string
	LowColor     string
	HighColor    string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DatasetKey identifies a loaded dataset snapshot. The fingerprint
	// distinguishes edited stores from the shipped defaults.
	DatasetKey(category, fingerprint string) string

	// LayoutKey identifies a computed layout for a dataset hash.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme. Dataset keys stay readable for
// debugging; layout and artifact keys hash their options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatasetKey generates a key for dataset snapshot caching.
func (k *DefaultKeyer) DatasetKey(category, fingerprint string) string {
	return "dataset:" + category + ":" + fingerprint
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
