package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

func TestSampleCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{4, 400},
		{0.5, 50},
		{0.015, 1},
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := SampleCount(tt.in); got != tt.want {
			t.Errorf("SampleCount(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWaveforms(t *testing.T) {
	patches := []design.Patch{
		{PID: "p-1", Omega: 10, Phi: 0},
		{PID: "p-2", Omega: 12.5, Phi: math.Pi},
	}
	ws := Waveforms(patches, 1)
	if len(ws) != 2 || len(ws[0].Samples) != 100 {
		t.Fatalf("Waveforms() = %d waveforms of %d samples", len(ws), len(ws[0].Samples))
	}
	if ws[0].PID != "p-1" || ws[0].Recorded {
		t.Errorf("waveform 0 = %+v", ws[0])
	}

	if got := ws[0].Samples[0]; math.Abs(got-1) > 1e-12 {
		t.Errorf("cos(0) sample = %v, want 1", got)
	}
	// 10 Hz: half a period after 50 ms.
	if got := ws[0].Samples[5]; math.Abs(got) > 1e-9 {
		t.Errorf("sample at 50ms = %v, want 0", got)
	}
	if got := ws[1].Samples[0]; math.Abs(got) > 1e-12 {
		t.Errorf("phase pi sample = %v, want 0", got)
	}
	for _, w := range ws {
		for _, s := range w.Samples {
			if s < 0 || s > 1 {
				t.Fatalf("sample %v out of [0,1]", s)
			}
		}
	}
}

func TestWaveformsRecorded(t *testing.T) {
	patches := []design.Patch{{PID: "p-1", Omega: 10}, {PID: "p-2", Omega: 11}}
	ws := Waveforms(patches, 0.05, WithRecorded(map[string][]float64{"p-2": {0, 1}}))

	if ws[0].Recorded || !ws[1].Recorded {
		t.Errorf("recorded flags = %v, %v", ws[0].Recorded, ws[1].Recorded)
	}
	want := []float64{0, 1, 0, 1, 0}
	for i, v := range want {
		if ws[1].Samples[i] != v {
			t.Errorf("tiled samples = %v, want %v", ws[1].Samples, want)
			break
		}
	}
}

func TestReadRecorded(t *testing.T) {
	in := ",p-1,p-3\n0,0.1,0.9\n1,0.2,0.8\n"
	series, err := ReadRecorded(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadRecorded: %v", err)
	}
	if len(series) != 2 || series["p-3"][1] != 0.8 || len(series["p-1"]) != 2 {
		t.Errorf("ReadRecorded() = %v", series)
	}

	for _, bad := range []string{"", "only\n1\n", ",p-1\n0,x\n", ",p-1\n0,1,2\n"} {
		if _, err := ReadRecorded(strings.NewReader(bad)); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ReadRecorded(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestCorrelations(t *testing.T) {
	patches := []design.Patch{
		{PID: "p-1", Omega: 10, Phi: 0},
		{PID: "p-2", Omega: 10, Phi: math.Pi},
		{PID: "p-3", Omega: 13.3, Phi: 1},
	}
	ws := Waveforms(patches, 4)
	ws = append(ws, Waveform{PID: "flat", Samples: make([]float64, 400)})
	m := Correlations(ws)

	if n := m.SymmetricDim(); n != 4 {
		t.Fatalf("dim = %d, want 4", n)
	}
	for i := 0; i < 4; i++ {
		if m.At(i, i) != 1 {
			t.Errorf("diagonal %d = %v, want 1", i, m.At(i, i))
		}
	}
	if r := m.At(0, 1); math.Abs(r-1) > 1e-9 {
		t.Errorf("anti-phase pair |r| = %v, want 1", r)
	}
	if r := m.At(0, 2); r > 0.2 {
		t.Errorf("different frequencies |r| = %v, want near 0", r)
	}
	if r := m.At(0, 3); r != 0 {
		t.Errorf("constant waveform |r| = %v, want 0", r)
	}
	if m.At(1, 0) != m.At(0, 1) {
		t.Error("matrix should be symmetric")
	}

	top := MostSimilar(ws, m, 1)
	if len(top) != 1 || top[0].A != "p-1" || top[0].B != "p-2" {
		t.Errorf("MostSimilar() = %v", top)
	}
	if all := MostSimilar(ws, m, 0); len(all) != 6 {
		t.Errorf("MostSimilar(k=0) returned %d pairs, want 6", len(all))
	}

	s, err := Summarize(ws, m)
	if err != nil {
		t.Fatal(err)
	}
	if s.Pairs != 6 || math.Abs(s.Max-1) > 1e-9 || s.Min != 0 || s.Mean <= 0 || s.P90 < s.Median {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestCorrelationsDegenerate(t *testing.T) {
	m := Correlations(nil)
	if !m.IsEmpty() {
		t.Error("no waveforms should give an empty matrix")
	}
	if pairs := MostSimilar(nil, m, 3); len(pairs) != 0 {
		t.Errorf("MostSimilar() = %v", pairs)
	}
	s, err := Summarize(nil, m)
	if err != nil || s != (Summary{}) {
		t.Errorf("Summarize() = %+v, %v", s, err)
	}

	one := Waveforms([]design.Patch{{PID: "p-1", Omega: 10}}, 1)
	if s, _ := Summarize(one, Correlations(one)); s.Pairs != 0 {
		t.Errorf("single patch summary = %+v", s)
	}
}
