// Package analysis checks how distinguishable a design's flicker patches are.
//
// Every patch flickers with luminance 0.5 + 0.5·cos(2π·omega·t + phi).
// [Waveforms] samples those curves every 10 ms over a trial body, optionally
// replacing some patches with recorded series. [Correlations] returns the
// absolute Pearson correlation of every pair of waveforms: a value near 1
// flags two patches the subject cannot tell apart.
//
//	patches, _ := design.ParseSpectral(text)
//	ws := analysis.Waveforms(patches, 4)
//	m := analysis.Correlations(ws)
//	for _, p := range analysis.MostSimilar(ws, m, 3) { ... }
package analysis
