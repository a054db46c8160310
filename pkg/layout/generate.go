package layout

import (
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/geometry"
)

// Frequency range, in Hz, patches are drawn from.
const (
	MinOmega = 10.0
	MaxOmega = 20.0
)

// PIDPrefix prefixes the 1-based patch number in generated ids.
const PIDPrefix = "p-"

// Option configures [Generate].
type Option func(*generator)

type generator struct {
	rng *rand.Rand
}

// WithSeed makes omega and phi reproducible for a given seed.
func WithSeed(seed uint64) Option {
	return func(g *generator) { g.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithRand draws omega and phi from r.
func WithRand(r *rand.Rand) Option {
	return func(g *generator) { g.rng = r }
}

// Generate lays out one patch per grid cell of opts.
func Generate(opts display.Options, options ...Option) []design.Patch {
	g := generator{}
	for _, o := range options {
		o(&g)
	}
	if g.rng == nil {
		now := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(now, now>>1))
	}

	bounds := geometry.BoundingRect(
		float64(opts.ResolutionX), float64(opts.ResolutionY),
		opts.RectCenterX, opts.RectCenterY, opts.RectWidth, opts.RectHeight,
	)
	offsetX, offsetY := bounds.Left(), bounds.Top()

	cols, rows := opts.GridColumns, opts.GridRows
	dx := bounds.Width / float64(cols)
	dy := bounds.Height / float64(rows)

	var patches []design.Patch
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			patches = append(patches, design.Patch{
				X:     round(float64(i)*dx + offsetX + dx/2),
				Y:     round(float64(j)*dy + offsetY + dy/2),
				W:     round(dx * opts.PatchExtentX),
				H:     round(dy * opts.PatchExtentY),
				Omega: MinOmega + g.rng.Float64()*(MaxOmega-MinOmega),
				Phi:   g.rng.Float64() * 2 * math.Pi,
			})
		}
	}

	for k := range patches {
		patches[k].PID = PIDPrefix + strconv.Itoa(k+1)
	}
	return patches
}

// round converts to the nearest integer; NaN and infinities become 0 so a
// degenerate grid still serializes to numbers.
func round(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
