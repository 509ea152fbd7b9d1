package render

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"strings"
	"testing"

	"churnscope/domain/churn"
	"churnscope/internal/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func dashboard(t *testing.T, n int) *views.Dashboard {
	t.Helper()
	contracts := []string{"Month-to-month", "One year", "Two year"}
	records := make([]churn.CustomerRecord, n)
	for i := range records {
		churnValue := churn.ChurnNo
		if i%3 == 0 {
			churnValue = churn.ChurnYes
		}
		monthly := 20 + float64(i*7%80)
		tenure := 1 + i%24
		records[i] = churn.NewCustomerRecord(contracts[i%3], "DSL", monthly*float64(tenure), monthly, tenure, churnValue, map[string]string{
			"SeniorCitizen": []string{"0", "1"}[i%2],
			"PaymentMethod": "Electronic check",
		})
	}
	headers := []string{"SeniorCitizen", "Contract", "InternetService", "tenure", "MonthlyCharges", "TotalCharges", "PaymentMethod", "Churn"}
	d, err := views.BuildAll(context.Background(), churn.NewDataset(headers, records))
	require.NoError(t, err)
	return d
}

func TestChart_RendersPNGForEveryChartView(t *testing.T) {
	d := dashboard(t, 60)
	for _, n := range ChartViews {
		t.Run(string(n), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Chart(&buf, d, n))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
			_, err := png.Decode(bytes.NewReader(buf.Bytes()))
			assert.NoError(t, err)
		})
	}
}

func TestChart_EmptyDashboardRendersPlaceholder(t *testing.T) {
	d := dashboard(t, 0)
	for _, n := range ChartViews {
		var buf bytes.Buffer
		require.NoError(t, Chart(&buf, d, n))
		img, err := png.Decode(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	}
}

func TestTrendChart_SingleTenureIsCharted(t *testing.T) {
	_, err := trendChart(views.TenureTrend{})
	assert.Equal(t, errNoData, err)

	r, err := trendChart(views.TenureTrend{Points: []views.TenurePoint{{Tenure: 12, Yes: 2, No: 5}}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(chart.PNG, &buf))
	_, err = png.Decode(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)

	bars, ok := r.(chart.BarChart)
	require.True(t, ok)
	assert.Equal(t, "Churn at tenure 12", bars.Title)
	require.Len(t, bars.Bars, 2)
	assert.Equal(t, 2.0, bars.Bars[0].Value)
	assert.Equal(t, 5.0, bars.Bars[1].Value)
}

func TestChart_UnknownView(t *testing.T) {
	var buf bytes.Buffer
	err := Chart(&buf, dashboard(t, 5), views.ViewTreemap)
	assert.Error(t, err)
	assert.False(t, IsChart(views.ViewTreemap))
	assert.True(t, IsChart(views.ViewPie))
}

func TestHeatmap(t *testing.T) {
	m := views.CorrelationMatrix{
		Columns: []string{"tenure", "<b>x</b>"},
		Values: [][]views.Coefficient{
			{1, views.Coefficient(math.NaN())},
			{views.Coefficient(math.NaN()), -0.25},
		},
	}

	out, err := Heatmap(m)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "1.00")
	assert.Contains(t, s, "-0.25")
	assert.Contains(t, s, "n/a")
	assert.Contains(t, s, "#b40426")
	assert.NotContains(t, s, "<b>x</b>")
	assert.Equal(t, 3, strings.Count(s, "<tr><th>"))
}

func TestCoolwarm(t *testing.T) {
	assert.Equal(t, "#f2f2f2", coolwarm(0))
	assert.Equal(t, "#3b4cc0", coolwarm(-1))
	assert.Equal(t, "#b40426", coolwarm(2))
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(views.Overview{TotalCustomers: 4, ChurnedCustomers: 1}, []string{"One year"}, nil)

	assert.Contains(t, md, "**Total customers:** 4")
	assert.Contains(t, md, "(25.0%)")
	assert.Contains(t, md, "`One year`")
	assert.Contains(t, md, "_none selected_")

	html := string(Markdown(md))
	assert.Contains(t, html, "<strong>Total customers:</strong> 4")
	assert.Contains(t, html, "<code>One year</code>")
}

func TestSummaryMarkdown_Empty(t *testing.T) {
	md := SummaryMarkdown(views.Overview{}, nil, nil)
	assert.Contains(t, md, "No customers match")
	assert.NotContains(t, md, "%")
}

func TestMarkdown_SkipsRawHTML(t *testing.T) {
	out := string(Markdown("hello <script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")
}
