package monitor

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"smole/internal/volstats"
)

// WriteVolumeHistogram writes a PNG histogram of the population's volumes.
// Useful as a one-shot artefact after a batch analysis, where the HTML chart
// endpoint is not running.
func WriteVolumeHistogram(pop volstats.Population, path string) error {
	if len(pop) == 0 {
		return fmt.Errorf("cannot plot an empty population")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	values := make(plotter.Values, len(pop))
	copy(values, pop.Volumes())

	p := plot.New()
	p.Title.Text = "Volume Distribution"
	p.X.Label.Text = "volume"
	p.Y.Label.Text = "objects"

	bins := 20
	if len(pop) < bins {
		bins = len(pop)
	}
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
