package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"churnscope/internal/views"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 480
)

var (
	colorYes = drawing.ColorFromHex("d62728")
	colorNo  = drawing.ColorFromHex("1f77b4")
)

// churnColor picks the series color for a Churn label
func churnColor(label string) drawing.Color {
	if label == "Yes" {
		return colorYes
	}
	return colorNo
}

// ChartViews are the views that render to PNG
var ChartViews = []views.Name{views.ViewPie, views.ViewBubble, views.ViewTrend, views.ViewDensity, views.ViewCorrelation}

// IsChart reports whether n has a PNG rendering
func IsChart(n views.Name) bool {
	for _, c := range ChartViews {
		if c == n {
			return true
		}
	}
	return false
}

// Chart writes the PNG for the named view. Views with nothing to plot render a
// placeholder image instead of failing.
func Chart(w io.Writer, d *views.Dashboard, n views.Name) error {
	var (
		r   chartRenderer
		err error
	)
	switch n {
	case views.ViewPie:
		r, err = pieChart(d.Pie)
	case views.ViewBubble:
		r, err = bubbleChart(d.Bubble)
	case views.ViewTrend:
		r, err = trendChart(d.Trend)
	case views.ViewDensity:
		r, err = densityChart(d.Density)
	case views.ViewCorrelation:
		r, err = correlationChart(d.Correlations)
	default:
		return fmt.Errorf("view %q has no chart", n)
	}
	if err != nil {
		return Placeholder(w, DefaultWidth, DefaultHeight, err.Error())
	}

	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return Placeholder(w, DefaultWidth, DefaultHeight, "Unable to draw chart")
	}
	_, err = w.Write(buf.Bytes())
	return err
}

type chartRenderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type emptyError string

func (e emptyError) Error() string { return string(e) }

const errNoData = emptyError("No data for the current filters")

func pieChart(p views.ChurnPie) (chartRenderer, error) {
	values := make([]chart.Value, 0, len(p.Slices))
	for _, s := range p.Slices {
		if s.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: churnColor(s.Label), StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return nil, errNoData
	}
	return chart.PieChart{
		Title:  "Churn distribution",
		Width:  DefaultHeight,
		Height: DefaultHeight,
		Values: values,
	}, nil
}

func bubbleChart(b views.Bubble) (chartRenderer, error) {
	if len(b.Points) == 0 {
		return nil, errNoData
	}

	maxTenure := 0.0
	for _, p := range b.Points {
		maxTenure = math.Max(maxTenure, float64(p.Tenure))
	}

	var series []chart.Series
	for _, label := range []string{"Yes", "No"} {
		var xs, ys, sizes []float64
		for _, p := range b.Points {
			if p.Churn != label {
				continue
			}
			xs = append(xs, p.MonthlyCharges)
			ys = append(ys, p.TotalCharges)
			sizes = append(sizes, bubbleSize(float64(p.Tenure), maxTenure))
		}
		if len(xs) == 0 {
			continue
		}
		style := pointStyle(churnColor(label))
		style.DotWidthProvider = func(_, _ chart.Range, index int, _, _ float64) float64 {
			return sizes[index]
		}
		series = append(series, chart.ContinuousSeries{Name: "Churn " + label, XValues: xs, YValues: ys, Style: style})
	}
	if len(series) == 0 {
		return nil, errNoData
	}
	return lineChart("Monthly vs total charges (size: tenure)", "MonthlyCharges", "TotalCharges", series), nil
}

func bubbleSize(v, max float64) float64 {
	if max <= 0 {
		return 3
	}
	return 2 + 10*math.Sqrt(v/max)
}

func trendChart(t views.TenureTrend) (chartRenderer, error) {
	switch len(t.Points) {
	case 0:
		return nil, errNoData
	case 1:
		return singleTenureChart(t.Points[0]), nil
	}
	xs := make([]float64, len(t.Points))
	yes := make([]float64, len(t.Points))
	no := make([]float64, len(t.Points))
	for i, p := range t.Points {
		xs[i] = float64(p.Tenure)
		yes[i] = float64(p.Yes)
		no[i] = float64(p.No)
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Churn Yes", XValues: xs, YValues: yes, Style: lineStyle(colorYes)},
		chart.ContinuousSeries{Name: "Churn No", XValues: xs, YValues: no, Style: lineStyle(colorNo)},
	}
	return lineChart("Churn by tenure", "tenure", "customers", series), nil
}

// singleTenureChart shows Yes and No side by side when every customer shares one
// tenure value; a line needs at least two x values
func singleTenureChart(p views.TenurePoint) chartRenderer {
	top := math.Max(1, float64(p.Yes+p.No))
	return chart.BarChart{
		Title:      fmt.Sprintf("Churn at tenure %d", p.Tenure),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		BarWidth:   120,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top}},
		Bars: []chart.Value{
			{Label: fmt.Sprintf("Churn Yes (%d)", p.Yes), Value: float64(p.Yes), Style: chart.Style{FillColor: colorYes, StrokeColor: colorYes}},
			{Label: fmt.Sprintf("Churn No (%d)", p.No), Value: float64(p.No), Style: chart.Style{FillColor: colorNo, StrokeColor: colorNo}},
		},
	}
}

func densityChart(d views.Density) (chartRenderer, error) {
	if len(d.Curves) == 0 || len(d.X) < 2 {
		return nil, errNoData
	}
	series := make([]chart.Series, 0, len(d.Curves))
	for _, c := range d.Curves {
		style := lineStyle(churnColor(c.Label))
		style.FillColor = churnColor(c.Label).WithAlpha(48)
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Churn %s (n=%d)", c.Label, c.N),
			XValues: d.X,
			YValues: c.Y,
			Style:   style,
		})
	}
	return lineChart("Monthly charges density by churn", "MonthlyCharges", "density", series), nil
}

func correlationChart(c views.Correlations) (chartRenderer, error) {
	bars := make([]chart.Value, 0, len(c.WithChurn))
	for _, f := range c.WithChurn {
		if f.Value.IsNaN() {
			continue
		}
		fill := colorNo
		if f.Value > 0 {
			fill = colorYes
		}
		bars = append(bars, chart.Value{
			Label: f.Column,
			Value: float64(f.Value),
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}
	if len(bars) < 2 {
		return nil, errNoData
	}

	barWidth := (DefaultWidth - 120) / len(bars)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}
	return chart.BarChart{
		Title:        "Correlation with churn",
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 90}},
		BarWidth:     barWidth,
		Bars:         bars,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis:        chart.YAxis{Range: &chart.ContinuousRange{Min: -1, Max: 1}},
	}, nil
}

func lineChart(title, xName, yName string, series []chart.Series) chartRenderer {
	ch := chart.Chart{
		Title:      title,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: xName},
		YAxis:      chart.YAxis{Name: yName},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return &ch
}

// pointStyle renders points only, no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col.WithAlpha(160),
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// Placeholder writes a flat PNG carrying msg, used when a chart has nothing to draw
func Placeholder(w io.Writer, width, height int, msg string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 245, G: 245, B: 245, A: 255}), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}), Face: face}
	tw := dr.MeasureString(msg).Ceil()
	x := (width - tw) / 2
	if x < 8 {
		x = 8
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(height / 2)}
	dr.DrawString(msg)

	return png.Encode(w, img)
}
