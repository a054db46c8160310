package analysis_test

import (
	"fmt"
	"math"

	"github.com/flickergrid/flickergrid/pkg/analysis"
	"github.com/flickergrid/flickergrid/pkg/design"
)

func ExampleCorrelations() {
	patches := []design.Patch{
		{PID: "p-1", Omega: 10, Phi: 0},
		{PID: "p-2", Omega: 10, Phi: math.Pi / 2},
	}
	ws := analysis.Waveforms(patches, 2)
	m := analysis.Correlations(ws)
	fmt.Printf("%.2f\n", m.At(0, 1))
	// Output: 0.00
}
