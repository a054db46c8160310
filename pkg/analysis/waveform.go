package analysis

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

// SampleInterval is the spacing of waveform samples, in seconds.
const SampleInterval = 0.01

// Waveform is the sampled luminance of one patch.
type Waveform struct {
	PID      string    `json:"pid"`
	Samples  []float64 `json:"samples"`
	Recorded bool      `json:"recorded"`
}

// Option configures [Waveforms].
type Option func(*options)

type options struct {
	recorded map[string][]float64
}

// WithRecorded uses the given series instead of the computed curve for the
// patches it names. Short series are repeated to fill the body.
func WithRecorded(series map[string][]float64) Option {
	return func(o *options) { o.recorded = series }
}

// SampleCount returns the number of samples in bodyLength seconds.
func SampleCount(bodyLength float64) int {
	if !(bodyLength > 0) || math.IsInf(bodyLength, 0) {
		return 0
	}
	return int(bodyLength/SampleInterval + 1e-9)
}

// Waveforms samples every patch over bodyLength seconds, in design order.
func Waveforms(patches []design.Patch, bodyLength float64, opts ...Option) []Waveform {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	n := SampleCount(bodyLength)

	ws := make([]Waveform, len(patches))
	for i, p := range patches {
		ws[i].PID = p.PID
		if rec := o.recorded[p.PID]; len(rec) > 0 {
			ws[i].Samples = tile(rec, n)
			ws[i].Recorded = true
			continue
		}
		samples := make([]float64, n)
		for k := range samples {
			t := float64(k) * SampleInterval
			samples[k] = 0.5 + 0.5*math.Cos(2*math.Pi*p.Omega*t+p.Phi)
		}
		ws[i].Samples = samples
	}
	return ws
}

func tile(series []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = series[i%len(series)]
	}
	return out
}

// ReadRecorded reads recorded series from CSV: a header naming one patch per
// column after a leading index column, then one row per sample.
func ReadRecorded(r io.Reader) (map[string][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read recorded series")
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "recorded series need an index column and at least one patch column")
	}

	names := rows[0][1:]
	series := make(map[string][]float64, len(names))
	for line, row := range rows[1:] {
		for j, name := range names {
			s := strings.TrimSpace(row[j+1])
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "line %d, column %q: not a number: %q", line+2, name, s)
			}
			series[strings.TrimSpace(name)] = append(series[strings.TrimSpace(name)], v)
		}
	}
	return series, nil
}
