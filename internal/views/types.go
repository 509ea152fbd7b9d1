package views

import (
	"encoding/json"
	"math"
)

// Name identifies one dashboard view
type Name string

const (
	ViewOverview    Name = "overview"
	ViewPie         Name = "pie"
	ViewBubble      Name = "bubble"
	ViewTrend       Name = "trend"
	ViewDensity     Name = "density"
	ViewTreemap     Name = "treemap"
	ViewSunburst    Name = "sunburst"
	ViewCorrelation Name = "correlation"
)

// AllViews lists the views in tab order
var AllViews = []Name{ViewOverview, ViewPie, ViewBubble, ViewTrend, ViewDensity, ViewTreemap, ViewSunburst, ViewCorrelation}

// Title is the tab label for a view
func (n Name) Title() string {
	switch n {
	case ViewOverview:
		return "Overview"
	case ViewPie:
		return "Pie Chart"
	case ViewBubble:
		return "Bubble Chart"
	case ViewTrend:
		return "Line Trend"
	case ViewDensity:
		return "Bell Curve"
	case ViewTreemap:
		return "Treemap"
	case ViewSunburst:
		return "Sunburst"
	case ViewCorrelation:
		return "Correlations"
	}
	return string(n)
}

// ParseName returns the view for s and whether it exists
func ParseName(s string) (Name, bool) {
	for _, n := range AllViews {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Coefficient is a correlation value; NaN encodes as JSON null
type Coefficient float64

// MarshalJSON implements json.Marshaler
func (c Coefficient) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// IsNaN reports whether the coefficient is undefined
func (c Coefficient) IsNaN() bool {
	return math.IsNaN(float64(c))
}

// Overview is the first tab: a preview of the filtered rows plus headline counts
type Overview struct {
	Headers          []string   `json:"headers"`
	Preview          [][]string `json:"preview"`
	TotalCustomers   int        `json:"total_customers"`
	ChurnedCustomers int        `json:"churned_customers"`
}

// CategoryCount is one labelled count
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ChurnPie holds counts per Churn value, largest first
type ChurnPie struct {
	Slices []CategoryCount `json:"slices"`
}

// BubblePoint is one customer in the charges-vs-tenure chart
type BubblePoint struct {
	MonthlyCharges float64 `json:"monthly_charges"`
	TotalCharges   float64 `json:"total_charges"`
	Tenure         int     `json:"tenure"`
	Churn          string  `json:"churn"`
	Contract       string  `json:"contract"`
	PaymentMethod  string  `json:"payment_method"`
}

// Bubble holds one point per filtered customer
type Bubble struct {
	Points []BubblePoint `json:"points"`
}

// TenurePoint counts churned and retained customers at one tenure
type TenurePoint struct {
	Tenure int `json:"tenure"`
	Yes    int `json:"yes"`
	No     int `json:"no"`
}

// TenureTrend holds points in ascending tenure order
type TenureTrend struct {
	Points []TenurePoint `json:"points"`
}

// DensityCurve is a kernel density estimate for one churn group, sampled on Density.X
type DensityCurve struct {
	Label     string    `json:"label"`
	N         int       `json:"n"`
	Bandwidth float64   `json:"bandwidth"`
	Y         []float64 `json:"y"`
}

// Density holds the monthly-charges bell curves per churn group
type Density struct {
	X      []float64      `json:"x"`
	Curves []DensityCurve `json:"curves"`
}

// HierarchyLeaf counts customers for one (contract, churn) pair
type HierarchyLeaf struct {
	Contract string `json:"contract"`
	Churn    string `json:"churn"`
	Count    int    `json:"count"`
}

// Hierarchy backs both the treemap and the sunburst
type Hierarchy struct {
	Parents []CategoryCount `json:"parents"`
	Leaves  []HierarchyLeaf `json:"leaves"`
	Total   int             `json:"total"`
}

// CorrelationMatrix is a square Pearson matrix over Columns
type CorrelationMatrix struct {
	Columns []string        `json:"columns"`
	Values  [][]Coefficient `json:"values"`
}

// FeatureCorrelation is one column's correlation with encoded Churn
type FeatureCorrelation struct {
	Column string      `json:"column"`
	Value  Coefficient `json:"value"`
}

// Correlations is the last tab: numeric heatmap plus per-feature churn correlation
type Correlations struct {
	Matrix    CorrelationMatrix    `json:"matrix"`
	WithChurn []FeatureCorrelation `json:"with_churn"`
}

// Dashboard holds every aggregate for one filtered dataset
type Dashboard struct {
	Overview     Overview     `json:"overview"`
	Pie          ChurnPie     `json:"pie"`
	Bubble       Bubble       `json:"bubble"`
	Trend        TenureTrend  `json:"trend"`
	Density      Density      `json:"density"`
	Hierarchy    Hierarchy    `json:"hierarchy"`
	Correlations Correlations `json:"correlations"`
}

// View returns the aggregate shown on the named tab
func (d *Dashboard) View(n Name) (interface{}, bool) {
	switch n {
	case ViewOverview:
		return d.Overview, true
	case ViewPie:
		return d.Pie, true
	case ViewBubble:
		return d.Bubble, true
	case ViewTrend:
		return d.Trend, true
	case ViewDensity:
		return d.Density, true
	case ViewTreemap, ViewSunburst:
		return d.Hierarchy, true
	case ViewCorrelation:
		return d.Correlations, true
	}
	return nil, false
}
