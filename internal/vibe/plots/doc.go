// Package plots prepares the diagnostic chart data spec.md §6 requires:
// an FFT-style spectrum, a time x frequency spectrogram, a ranked peaks
// table, and per-reference matched-amplitude-vs-speed series. Every
// function here returns plain data (no rendering); a go-echarts-backed
// renderer or a gonum/plot debug PNG exporter consumes the same shapes.
//
// plots depends on vibe/sample, vibe/statx, vibe/order, and vibe/phase;
// it is consumed only by vibe/summary and any downstream renderer.
package plots
