package testkit

import (
	"testing"

	"churnscope/domain/churn"
	"churnscope/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() ChurnGeneratorConfig {
	config := DefaultChurnConfig()
	config.CustomerCount = 200
	return config
}

func TestChurnDataGenerator_Basic(t *testing.T) {
	table := NewChurnDataGenerator(smallConfig()).Generate()

	assert.Equal(t, GeneratedHeaders, table.Headers)
	require.Len(t, table.Rows, 200)
	assert.Empty(t, table.MissingColumns(churn.RequiredColumns))

	for i, row := range table.Rows {
		assert.Contains(t, []string{churn.ChurnYes, churn.ChurnNo}, row[churn.ColumnChurn], "row %d", i)
		assert.Contains(t, contracts, row[churn.ColumnContract], "row %d", i)
		assert.Contains(t, internetServices, row[churn.ColumnInternetService], "row %d", i)
		assert.NotEmpty(t, row[churn.ColumnMonthlyCharges], "row %d", i)
		if row[churn.ColumnTotalCharges] == "" {
			assert.Equal(t, "0", row[churn.ColumnTenure], "only new customers have a blank total (row %d)", i)
		}
	}
}

func TestChurnDataGenerator_Deterministic(t *testing.T) {
	a := NewChurnDataGenerator(smallConfig()).Generate()
	b := NewChurnDataGenerator(smallConfig()).Generate()
	assert.Equal(t, a.Rows, b.Rows)

	other := smallConfig()
	other.Seed = 7
	c := NewChurnDataGenerator(other).Generate()
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestChurnDataGenerator_NoBlanks(t *testing.T) {
	config := smallConfig()
	config.NewCustomerBlanks = false

	for _, row := range NewChurnDataGenerator(config).Generate().Rows {
		assert.NotEmpty(t, row[churn.ColumnTotalCharges])
	}
}

func TestChurnDataGenerator_LoadsAndSkewsByContract(t *testing.T) {
	config := DefaultChurnConfig()
	config.CustomerCount = 2000

	ds, _, _, err := dataset.NewLoader(nil).Build(NewChurnDataGenerator(config).Generate())
	require.NoError(t, err)
	require.Equal(t, 2000, ds.Len())

	rate := func(contract string) float64 {
		sub := churn.Apply(ds, churn.NewSelection([]string{contract}, internetServices))
		require.NotZero(t, sub.Len())
		return float64(sub.ChurnedCount()) / float64(sub.Len())
	}
	assert.Greater(t, rate("Month-to-month"), rate("Two year"))
}
