package cache

import (
	"strconv"

	"github.com/flickergrid/flickergrid/pkg/display"
)

// Keyer builds cache keys. Keys hash every input that changes the cached
// value so stale entries are never served.
type Keyer interface {
	// DesignKey identifies a seeded layout.
	DesignKey(opts display.Options, seed uint64) string
	// ArtifactKey identifies a rendered preview of designText.
	ArtifactKey(designText string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render inputs besides the design text.
type ArtifactKeyOpts struct {
	Format  string          `json:"format"`
	Height  float64         `json:"height"`
	Display display.Options `json:"display"`
	// Background is the hash of the background data URL, if any.
	Background string `json:"background,omitempty"`
}

// DefaultKeyer produces "design:<sha256>" and "artifact:<format>:<sha256>"
// keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DesignKey implements Keyer. Only the options that feed the layout are
// hashed, so recoloring does not invalidate a layout.
func (DefaultKeyer) DesignKey(o display.Options, seed uint64) string {
	return hashKey("design",
		o.ResolutionX, o.ResolutionY,
		o.RectCenterX, o.RectCenterY, o.RectWidth, o.RectHeight,
		o.GridColumns, o.GridRows, o.PatchExtentX, o.PatchExtentY,
		strconv.FormatUint(seed, 10),
	)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(designText string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, Hash([]byte(designText)), opts)
}
