package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Correlations returns the absolute Pearson correlation between every pair
// of waveforms. The diagonal is 1. Pairs involving a constant waveform have
// no defined correlation and get 0.
func Correlations(ws []Waveform) *mat.SymDense {
	n := len(ws)
	if n == 0 {
		return &mat.SymDense{}
	}
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, absCorrelation(ws[i].Samples, ws[j].Samples))
		}
	}
	return m
}

func absCorrelation(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n < 2 {
		return 0
	}
	r := stat.Correlation(x[:n], y[:n], nil)
	if math.IsNaN(r) {
		return 0
	}
	return math.Abs(r)
}

// Pair is the correlation of two patches.
type Pair struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

// MostSimilar returns the k pairs with the highest correlation, highest
// first. k <= 0 returns every pair.
func MostSimilar(ws []Waveform, m *mat.SymDense, k int) []Pair {
	pairs := offDiagonal(ws, m)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].R > pairs[j].R })
	if k > 0 && k < len(pairs) {
		pairs = pairs[:k]
	}
	return pairs
}

func offDiagonal(ws []Waveform, m *mat.SymDense) []Pair {
	if m.IsEmpty() {
		return nil
	}
	n := m.SymmetricDim()
	var pairs []Pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: ws[i].PID, B: ws[j].PID, R: m.At(i, j)})
		}
	}
	return pairs
}

// Summary describes the spread of pairwise correlations.
type Summary struct {
	Pairs  int     `json:"pairs"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// Summarize computes a [Summary] over the off-diagonal entries of m. A design
// with fewer than two patches yields the zero Summary.
func Summarize(ws []Waveform, m *mat.SymDense) (Summary, error) {
	pairs := offDiagonal(ws, m)
	if len(pairs) == 0 {
		return Summary{}, nil
	}
	data := make(stats.Float64Data, len(pairs))
	for i, p := range pairs {
		data[i] = p.R
	}

	s := Summary{Pairs: len(data)}
	var err error
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if s.P90, err = data.Percentile(90); err != nil {
		return Summary{}, err
	}
	return s, nil
}
