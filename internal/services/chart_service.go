package services

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"hqi-analyzer/internal/models"
)

// unresolvedFill colors boundaries with no index value on the choropleth
var unresolvedFill = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}

// ChartService renders the static chart artifacts as PNG files
type ChartService struct {
	outputDir string
}

// NewChartService creates a new ChartService instance
func NewChartService(outputDir string) *ChartService {
	return &ChartService{
		outputDir: outputDir,
	}
}

// RenderHistogram renders the distribution of the index over all districts
func (s *ChartService) RenderHistogram(records []*models.MergedRecord) error {
	values := make(plotter.Values, 0, len(records))
	for _, r := range records {
		if r.HasHQI() {
			values = append(values, r.HQI)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("no defined index values to plot")
	}

	p := plot.New()
	p.Title.Text = "Housing Quality Index Distribution"
	p.X.Label.Text = "HQI"
	p.Y.Label.Text = "Districts"

	hist, err := plotter.NewHist(values, 20)
	if err != nil {
		return fmt.Errorf("error creating histogram: %v", err)
	}
	hist.FillColor = color.RGBA{R: 0x42, G: 0x85, B: 0xf4, A: 0xff}
	p.Add(hist)

	return s.save(p, 8*vg.Inch, 6*vg.Inch, "hqi_histogram.png")
}

// RenderRanking renders bar charts of the best and worst districts
func (s *ChartService) RenderRanking(top, bottom []*models.MergedRecord) error {
	if err := s.barChart(top, "Top Districts by HQI", "hqi_top_districts.png"); err != nil {
		return err
	}
	return s.barChart(bottom, "Bottom Districts by HQI", "hqi_bottom_districts.png")
}

func (s *ChartService) barChart(records []*models.MergedRecord, title, filename string) error {
	values := make(plotter.Values, len(records))
	names := make([]string, len(records))
	for i, r := range records {
		values[i] = r.HQI
		names[i] = r.DistrictName
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "HQI"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("error creating bar chart: %v", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 0x34, G: 0xa8, B: 0x53, A: 0xff}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1

	return s.save(p, 10*vg.Inch, 6*vg.Inch, filename)
}

// RenderCorrelations renders the correlation matrix as a heat map
func (s *ChartService) RenderCorrelations(cm *models.CorrelationMatrix) error {
	p := plot.New()
	p.Title.Text = "Indicator Correlations"

	heatMap := plotter.NewHeatMap(corrGrid{cm: cm}, moreland.SmoothBlueRed().Palette(255))
	p.Add(heatMap)

	ticks := indexTicks(cm.Labels)
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1

	return s.save(p, 9*vg.Inch, 8*vg.Inch, "correlation_matrix.png")
}

// RenderChoropleth renders every district boundary filled by its resolved
// index value; unresolved boundaries stay grey.
func (s *ChartService) RenderChoropleth(result *models.GeoJoinResult) error {
	p := plot.New()
	p.Title.Text = "Housing Quality Index by District"
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	colorMap := moreland.SmoothBlueRed()
	colorMap.SetMin(0)
	colorMap.SetMax(1)

	for _, record := range result.Records {
		fill := color.Color(unresolvedFill)
		if record.Resolved() {
			c, err := colorMap.At(clamp01(record.HQI))
			if err != nil {
				return fmt.Errorf("error mapping index color: %v", err)
			}
			fill = c
		}

		for _, ring := range record.Geometry.OuterRings() {
			xys := make(plotter.XYs, 0, len(ring))
			for _, coord := range ring {
				if len(coord) < 2 {
					continue
				}
				xys = append(xys, plotter.XY{X: coord[0], Y: coord[1]})
			}
			if len(xys) < 3 {
				continue
			}

			polygon, err := plotter.NewPolygon(xys)
			if err != nil {
				return fmt.Errorf("error creating boundary polygon: %v", err)
			}
			polygon.Color = fill
			polygon.LineStyle.Color = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
			polygon.LineStyle.Width = vg.Points(0.2)
			p.Add(polygon)
		}
	}

	return s.save(p, 10*vg.Inch, 12*vg.Inch, "hqi_choropleth.png")
}

func (s *ChartService) save(p *plot.Plot, w, h vg.Length, filename string) error {
	path := filepath.Join(s.outputDir, filename)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("error saving %s: %v", filename, err)
	}
	return nil
}

// corrGrid adapts a correlation matrix to the heat map grid interface.
// Undefined cells are drawn as zero correlation.
type corrGrid struct {
	cm *models.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.cm.Labels)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	v := g.cm.Values[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// indexTicks labels integer axis positions with feature names
type indexTicks []string

func (t indexTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(t))
	for i, label := range t {
		v := float64(i)
		if v < min || v > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

// clamp01 bounds a value to [0, 1] for color mapping
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
