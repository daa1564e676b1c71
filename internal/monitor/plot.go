package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/beacon.report/internal/registration"
)

var (
	beaconColor  = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	scannerColor = color.RGBA{R: 220, G: 80, B: 40, A: 255}
)

// NewMapPlot builds a scatter plot of the map's beacons and scanner
// positions flattened onto proj. Scanners are labelled with their IDs.
func NewMapPlot(m *registration.Map, proj Projection) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Beacon map %s (%d beacons, %d scanners)", proj, m.BeaconCount(), len(m.Placements))
	hl, vl := proj.labels()
	p.X.Label.Text = hl
	p.Y.Label.Text = vl

	beaconPts := make(plotter.XYs, 0, m.BeaconCount())
	for _, b := range m.Beacons.Points() {
		h, v := proj.Axes(b)
		beaconPts = append(beaconPts, plotter.XY{X: float64(h), Y: float64(v)})
	}
	beacons, err := plotter.NewScatter(beaconPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create beacon scatter: %w", err)
	}
	beacons.GlyphStyle.Color = beaconColor
	beacons.GlyphStyle.Radius = vg.Points(2)
	beacons.GlyphStyle.Shape = draw.CircleGlyph{}

	scannerPts := make(plotter.XYs, 0, len(m.Placements))
	names := make([]string, 0, len(m.Placements))
	for _, pl := range m.Placements {
		h, v := proj.Axes(pl.Position)
		scannerPts = append(scannerPts, plotter.XY{X: float64(h), Y: float64(v)})
		names = append(names, strconv.Itoa(pl.ScannerID))
	}
	scanners, err := plotter.NewScatter(scannerPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner scatter: %w", err)
	}
	scanners.GlyphStyle.Color = scannerColor
	scanners.GlyphStyle.Radius = vg.Points(5)
	scanners.GlyphStyle.Shape = draw.CrossGlyph{}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: scannerPts, Labels: names})
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner labels: %w", err)
	}

	p.Add(plotter.NewGrid(), beacons, scanners, labels)
	p.Legend.Add("beacons", beacons)
	p.Legend.Add("scanners", scanners)
	p.Legend.Top = true
	return p, nil
}

// SaveMapPlot writes the map plot to path. The format follows the file
// extension (png, svg, pdf, ...). Missing parent directories are created.
func SaveMapPlot(m *registration.Map, path string, proj Projection) error {
	p, err := NewMapPlot(m, proj)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
