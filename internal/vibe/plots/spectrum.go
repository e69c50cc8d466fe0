package plots

import (
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

// SpectrumPoint is one (frequency, amplitude) pair in an FFT-style
// spectrum plot (spec.md §6).
type SpectrumPoint struct {
	FrequencyHz float64
	AmpG        float64
}

// BuildFFTSpectrum buckets every top_peaks entry across all samples
// into cfg.FFTBinWidthHz-wide frequency bins, returning both the
// persistence-weighted view (down-weighting one-off transient bursts
// by the fraction of all samples that carried a peak in the bin) and
// the raw max-amplitude view (spec.md §6).
func BuildFFTSpectrum(samples []sample.SampleRecord, cfg config.Diagnostics) (weighted, raw []SpectrumPoint) {
	type binAgg struct {
		freqSum   float64
		ampSum    float64
		maxAmp    float64
		hitCount  int
		tickCount int
	}
	bins := make(map[int]*binAgg)

	// totalSamples is how many samples could have contributed to a bin
	// (every sample, since any sample's peaks could fall anywhere) so
	// persistence weighting reflects presence across the whole run.
	totalSamples := len(samples)
	for _, s := range samples {
		seenBins := make(map[int]bool)
		for _, pk := range s.TopPeaks {
			if pk.HzVal <= 0 || pk.AmpVal <= 0 {
				continue
			}
			idx := binIndex(pk.HzVal, cfg.FFTBinWidthHz)
			agg, ok := bins[idx]
			if !ok {
				agg = &binAgg{}
				bins[idx] = agg
			}
			agg.freqSum += pk.HzVal
			agg.ampSum += pk.AmpVal
			if pk.AmpVal > agg.maxAmp {
				agg.maxAmp = pk.AmpVal
			}
			if !seenBins[idx] {
				agg.hitCount++
				seenBins[idx] = true
			}
		}
	}

	idxs := make([]int, 0, len(bins))
	for idx := range bins {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	for _, idx := range idxs {
		agg := bins[idx]
		freqCenter := (float64(idx) + 0.5) * cfg.FFTBinWidthHz
		presence := 0.0
		if totalSamples > 0 {
			presence = float64(agg.hitCount) / float64(totalSamples)
		}
		meanAmp := agg.ampSum / float64(agg.hitCount)
		weighted = append(weighted, SpectrumPoint{FrequencyHz: freqCenter, AmpG: meanAmp * presence})
		raw = append(raw, SpectrumPoint{FrequencyHz: freqCenter, AmpG: agg.maxAmp})
	}
	return weighted, raw
}

func binIndex(hz, widthHz float64) int {
	if widthHz <= 0 {
		widthHz = 1
	}
	idx := int(hz / widthHz)
	return idx
}
