package main

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/shakedown/internal/vibe/summary"
)

// writePNGReports renders the FFT spectrum and vibration-magnitude
// trace as static PNGs in outDir, the same plot.New/plotter.NewLine/
// Save(vg.Inch, ...) sequence internal/lidar/monitor/gridplotter.go
// uses for its own per-ring debug exports.
func writePNGReports(out summary.AnalysisSummary, outDir string) error {
	if err := spectrumPNG(out, outDir); err != nil {
		return err
	}
	return vibMagnitudePNG(out, outDir)
}

func spectrumPNG(out summary.AnalysisSummary, outDir string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("FFT spectrum — run %s", out.RunID)
	p.X.Label.Text = "frequency (Hz)"
	p.Y.Label.Text = "amplitude (g)"

	pts := make(plotter.XYs, 0, len(out.Plots.FFTSpectrum))
	for _, pt := range out.Plots.FFTSpectrum {
		pts = append(pts, plotter.XY{X: pt.FrequencyHz, Y: pt.AmpG})
	}
	if len(pts) == 0 {
		return nil
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building spectrum line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(14*vg.Inch, 6*vg.Inch, filepath.Join(outDir, "spectrum.png"))
}

func vibMagnitudePNG(out summary.AnalysisSummary, outDir string) error {
	if len(out.Plots.VibMagnitude) == 0 {
		return nil
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("vibration magnitude — run %s", out.RunID)
	p.X.Label.Text = "sample index"
	p.Y.Label.Text = "|accel| (g)"

	pts := make(plotter.XYs, len(out.Plots.VibMagnitude))
	for i, mag := range out.Plots.VibMagnitude {
		pts[i] = plotter.XY{X: float64(i), Y: mag}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building vibration-magnitude line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(14*vg.Inch, 6*vg.Inch, filepath.Join(outDir, "vib_magnitude.png"))
}
