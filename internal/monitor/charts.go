package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/beacon.report/internal/registration"
)

// EchartsAssetsHost serves the echarts JavaScript referenced by rendered pages.
var EchartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// WriteMapPage renders an HTML page with one scatter chart per projection.
func WriteMapPage(w io.Writer, m *registration.Map, title string) error {
	page := components.NewPage()
	page.SetAssetsHost(EchartsAssetsHost)
	page.PageTitle = title
	for _, proj := range Projections {
		page.AddCharts(newMapScatter(m, proj, title))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render map page: %w", err)
	}
	return nil
}

func newMapScatter(m *registration.Map, proj Projection, title string) *charts.Scatter {
	hl, vl := proj.labels()

	beacons := make([]opts.ScatterData, 0, m.BeaconCount())
	for _, b := range m.Beacons.Points() {
		h, v := proj.Axes(b)
		beacons = append(beacons, opts.ScatterData{Name: b.String(), Value: []interface{}{h, v}})
	}
	scanners := make([]opts.ScatterData, 0, len(m.Placements))
	for _, pl := range m.Placements {
		h, v := proj.Axes(pl.Position)
		scanners = append(scanners, opts.ScatterData{
			Name:  fmt.Sprintf("scanner %d", pl.ScannerID),
			Value: []interface{}{h, v},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px", AssetsHost: EchartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s (%s)", title, proj),
			Subtitle: fmt.Sprintf("beacons=%d scanners=%d max spread=%d", m.BeaconCount(), len(m.Placements), m.MaxScannerDistance()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: hl, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: vl, NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("beacons", beacons, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("scanners", scanners, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	return scatter
}
