package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"churnscope/domain/churn"
	"churnscope/domain/ingestion"
)

// ChurnGeneratorConfig configures the synthetic churn table generator
type ChurnGeneratorConfig struct {
	CustomerCount     int     `json:"customer_count"`
	MaxTenure         int     `json:"max_tenure"`
	BaseChurnRate     float64 `json:"base_churn_rate"`
	NewCustomerBlanks bool    `json:"new_customer_blanks"` // tenure 0 rows get a blank TotalCharges
	Seed              int64   `json:"seed"`
}

// DefaultChurnConfig returns defaults shaped like the telco churn workbook
func DefaultChurnConfig() ChurnGeneratorConfig {
	return ChurnGeneratorConfig{
		CustomerCount:     1000,
		MaxTenure:         72,
		BaseChurnRate:     0.12,
		NewCustomerBlanks: true,
		Seed:              42,
	}
}

// GeneratedHeaders is the column order of generated tables
var GeneratedHeaders = []string{
	"customerID",
	"gender",
	"SeniorCitizen",
	"Partner",
	"Dependents",
	churn.ColumnTenure,
	"PhoneService",
	churn.ColumnInternetService,
	churn.ColumnContract,
	"PaperlessBilling",
	churn.ColumnPaymentMethod,
	churn.ColumnMonthlyCharges,
	churn.ColumnTotalCharges,
	churn.ColumnChurn,
}

var (
	contracts        = []string{"Month-to-month", "One year", "Two year"}
	contractWeights  = []float64{0.55, 0.21, 0.24}
	internetServices = []string{"Fiber optic", "DSL", "No"}
	internetWeights  = []float64{0.44, 0.34, 0.22}
	paymentMethods   = []string{"Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)"}
)

// ChurnDataGenerator produces reproducible customer tables for tests and demos
type ChurnDataGenerator struct {
	config ChurnGeneratorConfig
	rng    *rand.Rand
}

// NewChurnDataGenerator creates a generator seeded from config
func NewChurnDataGenerator(config ChurnGeneratorConfig) *ChurnDataGenerator {
	if config.MaxTenure <= 0 {
		config.MaxTenure = 72
	}
	return &ChurnDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the table. The same config always yields the same rows.
func (g *ChurnDataGenerator) Generate() *ingestion.RawTable {
	table := &ingestion.RawTable{
		Source:  fmt.Sprintf("generated(seed=%d)", g.config.Seed),
		Headers: append([]string(nil), GeneratedHeaders...),
		Rows:    make([]ingestion.RawRow, 0, g.config.CustomerCount),
	}
	for i := 0; i < g.config.CustomerCount; i++ {
		table.Rows = append(table.Rows, g.customer(i))
	}
	return table
}

func (g *ChurnDataGenerator) customer(i int) ingestion.RawRow {
	contract := g.pick(contracts, contractWeights)
	internet := g.pick(internetServices, internetWeights)
	tenure := g.tenure(contract)
	monthly := g.monthlyCharges(internet)

	total := strconv.FormatFloat(math.Round(monthly*float64(tenure)*100)/100, 'f', 2, 64)
	if tenure == 0 && g.config.NewCustomerBlanks {
		total = ""
	}

	payment := paymentMethods[g.rng.Intn(len(paymentMethods))]
	senior := g.rng.Float64() < 0.16

	churned := churn.ChurnNo
	if g.rng.Float64() < g.churnProbability(contract, internet, payment, tenure, senior) {
		churned = churn.ChurnYes
	}

	return ingestion.RawRow{
		"customerID":                fmt.Sprintf("%04d-CUST", i+1),
		"gender":                    g.pick([]string{"Female", "Male"}, nil),
		"SeniorCitizen":             boolDigit(senior),
		"Partner":                   yesNo(g.rng.Float64() < 0.48),
		"Dependents":                yesNo(g.rng.Float64() < 0.3),
		churn.ColumnTenure:          strconv.Itoa(tenure),
		"PhoneService":              yesNo(g.rng.Float64() < 0.9),
		churn.ColumnInternetService: internet,
		churn.ColumnContract:        contract,
		"PaperlessBilling":          yesNo(g.rng.Float64() < 0.59),
		churn.ColumnPaymentMethod:   payment,
		churn.ColumnMonthlyCharges:  strconv.FormatFloat(monthly, 'f', 2, 64),
		churn.ColumnTotalCharges:    total,
		churn.ColumnChurn:           churned,
	}
}

// tenure skews long for fixed-term contracts
func (g *ChurnDataGenerator) tenure(contract string) int {
	max := g.config.MaxTenure
	var t float64
	switch contract {
	case "Two year":
		t = float64(max) * (0.5 + 0.5*g.rng.Float64())
	case "One year":
		t = float64(max) * (0.2 + 0.7*g.rng.Float64())
	default:
		t = float64(max) * math.Pow(g.rng.Float64(), 2)
	}
	n := int(math.Round(t))
	if n > max {
		n = max
	}
	return n
}

func (g *ChurnDataGenerator) monthlyCharges(internet string) float64 {
	var mean, sd float64
	switch internet {
	case "Fiber optic":
		mean, sd = 91, 12
	case "DSL":
		mean, sd = 58, 14
	default:
		mean, sd = 21, 2
	}
	v := mean + g.rng.NormFloat64()*sd
	if v < 18.25 {
		v = 18.25
	}
	return math.Round(v*100) / 100
}

func (g *ChurnDataGenerator) churnProbability(contract, internet, payment string, tenure int, senior bool) float64 {
	p := g.config.BaseChurnRate
	switch contract {
	case "Month-to-month":
		p *= 3.2
	case "One year":
		p *= 0.9
	default:
		p *= 0.25
	}
	if internet == "Fiber optic" {
		p *= 1.6
	}
	if payment == "Electronic check" {
		p *= 1.4
	}
	if senior {
		p *= 1.3
	}
	// risk fades with tenure
	p *= 1.5 - float64(tenure)/float64(g.config.MaxTenure)
	return math.Max(0, math.Min(p, 0.95))
}

func (g *ChurnDataGenerator) pick(values []string, weights []float64) string {
	if weights == nil {
		return values[g.rng.Intn(len(values))]
	}
	r := g.rng.Float64()
	for i, w := range weights {
		if r < w {
			return values[i]
		}
		r -= w
	}
	return values[len(values)-1]
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
