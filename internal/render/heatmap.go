package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"churnscope/internal/views"
)

type heatCell struct {
	Text       string
	Background string
	Foreground string
}

type heatRow struct {
	Label string
	Cells []heatCell
}

var heatmapTemplate = template.Must(template.New("heatmap").Parse(`<table class="heatmap">
<thead><tr><th></th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}
<tr><th>{{.Label}}</th>{{range .Cells}}<td style="background:{{.Background}};color:{{.Foreground}}">{{.Text}}</td>{{end}}</tr>{{end}}
</tbody>
</table>`))

// Heatmap renders the correlation matrix as an annotated HTML table
func Heatmap(m views.CorrelationMatrix) (template.HTML, error) {
	rows := make([]heatRow, len(m.Columns))
	for i, label := range m.Columns {
		cells := make([]heatCell, len(m.Values[i]))
		for j, v := range m.Values[i] {
			cells[j] = heatmapCell(v)
		}
		rows[i] = heatRow{Label: label, Cells: cells}
	}

	var buf bytes.Buffer
	err := heatmapTemplate.Execute(&buf, struct {
		Columns []string
		Rows    []heatRow
	}{m.Columns, rows})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func heatmapCell(v views.Coefficient) heatCell {
	if v.IsNaN() {
		return heatCell{Text: "n/a", Background: "#eeeeee", Foreground: "#555"}
	}
	f := float64(v)
	fg := "#222"
	if math.Abs(f) > 0.6 {
		fg = "#fff"
	}
	return heatCell{Text: fmt.Sprintf("%.2f", f), Background: coolwarm(f), Foreground: fg}
}

// coolwarm maps -1..1 onto blue..white..red
func coolwarm(v float64) string {
	v = math.Max(-1, math.Min(1, v))
	blue := [3]float64{59, 76, 192}
	white := [3]float64{242, 242, 242}
	red := [3]float64{180, 4, 38}

	from, to, t := white, red, v
	if v < 0 {
		from, to, t = white, blue, -v
	}
	mix := func(i int) int { return int(math.Round(from[i] + (to[i]-from[i])*t)) }
	return fmt.Sprintf("#%02x%02x%02x", mix(0), mix(1), mix(2))
}
