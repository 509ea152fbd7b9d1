package views

import (
	"math"

	"churnscope/domain/churn"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DensityGridSize is how many points each curve is sampled at
	DensityGridSize = 200
	// densityCut extends the grid this many bandwidths past the data
	densityCut = 3.0
)

type densityGroup struct {
	label     string
	values    []float64
	bandwidth float64
}

// BuildDensity estimates the monthly-charges distribution of churned and retained
// customers with a Gaussian kernel and Scott's bandwidth. Groups with fewer than two
// points or no spread are left out; both curves share one x grid.
func BuildDensity(ds *churn.Dataset) Density {
	byChurn := map[string][]float64{}
	for _, rec := range ds.Records() {
		byChurn[rec.Churn] = append(byChurn[rec.Churn], rec.MonthlyCharges)
	}

	var groups []densityGroup
	for _, label := range []string{churn.ChurnYes, churn.ChurnNo} {
		values := byChurn[label]
		bw, ok := scottBandwidth(values)
		if !ok {
			continue
		}
		groups = append(groups, densityGroup{label: label, values: values, bandwidth: bw})
	}
	if len(groups) == 0 {
		return Density{X: []float64{}, Curves: []DensityCurve{}}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		min, _ := stats.Min(g.values)
		max, _ := stats.Max(g.values)
		lo = math.Min(lo, min-densityCut*g.bandwidth)
		hi = math.Max(hi, max+densityCut*g.bandwidth)
	}
	grid := linspace(lo, hi, DensityGridSize)

	curves := make([]DensityCurve, 0, len(groups))
	for _, g := range groups {
		curves = append(curves, DensityCurve{
			Label:     g.label,
			N:         len(g.values),
			Bandwidth: g.bandwidth,
			Y:         gaussianKDE(g.values, g.bandwidth, grid),
		})
	}
	return Density{X: grid, Curves: curves}
}

// scottBandwidth returns sigma * n^(-1/5) using the sample standard deviation
func scottBandwidth(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil || sd == 0 || math.IsNaN(sd) {
		return 0, false
	}
	return sd * math.Pow(float64(len(values)), -0.2), true
}

func gaussianKDE(values []float64, bandwidth float64, grid []float64) []float64 {
	kernels := make([]distuv.Normal, len(values))
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bandwidth}
	}
	n := float64(len(values))
	y := make([]float64, len(grid))
	for i, x := range grid {
		sum := 0.0
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		y[i] = sum / n
	}
	return y
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}
