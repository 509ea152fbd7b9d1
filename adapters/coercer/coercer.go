package coercer

import (
	"math"
	"strconv"
	"strings"
)

// TypeCoercer converts raw cell text into numbers with tolerant, deterministic rules
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"` // Case-insensitive tokens that always mean "missing"
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: []string{"", "na", "n/a", "nan", "null", "none", "-"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// NumericColumn is the result of coercing one column
type NumericColumn struct {
	Values       []float64 // Parsed values; 0 where Missing is set
	Missing      []bool    // True where the raw cell did not parse
	MissingCount int
}

// Present returns the values that parsed, in row order
func (c NumericColumn) Present() []float64 {
	out := make([]float64, 0, len(c.Values)-c.MissingCount)
	for i, v := range c.Values {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// ParseNumeric parses a cell as a finite float. Anything else is reported as not ok.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	clean := strings.TrimSpace(raw)
	if c.isMissingToken(clean) {
		return 0, false
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// CoerceColumn parses every value; failures become missing rather than errors
func (c *TypeCoercer) CoerceColumn(raw []string) NumericColumn {
	col := NumericColumn{
		Values:  make([]float64, len(raw)),
		Missing: make([]bool, len(raw)),
	}
	for i, s := range raw {
		v, ok := c.ParseNumeric(s)
		if !ok {
			col.Missing[i] = true
			col.MissingCount++
			continue
		}
		col.Values[i] = v
	}
	return col
}

// IsNumericColumn reports whether every non-missing value parses and at least one does
func (c *TypeCoercer) IsNumericColumn(raw []string) bool {
	seen := 0
	for _, s := range raw {
		if c.isMissingToken(strings.TrimSpace(s)) {
			continue
		}
		if _, ok := c.ParseNumeric(s); !ok {
			return false
		}
		seen++
	}
	return seen > 0
}

// NumericValues returns the column as floats with NaN for missing cells, or false when
// the column is not numeric by IsNumericColumn
func (c *TypeCoercer) NumericValues(raw []string) ([]float64, bool) {
	if !c.IsNumericColumn(raw) {
		return nil, false
	}
	col := c.CoerceColumn(raw)
	values := make([]float64, len(raw))
	for i, v := range col.Values {
		if col.Missing[i] {
			v = math.NaN()
		}
		values[i] = v
	}
	return values, true
}

func (c *TypeCoercer) isMissingToken(s string) bool {
	lower := strings.ToLower(s)
	for _, token := range c.config.MissingTokens {
		if lower == token {
			return true
		}
	}
	return false
}
