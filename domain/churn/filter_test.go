package churn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDataset() *Dataset {
	headers := []string{"customerID", ColumnContract, ColumnInternetService, ColumnTotalCharges, ColumnMonthlyCharges, ColumnTenure, ColumnChurn}
	records := []CustomerRecord{
		NewCustomerRecord("Month-to-month", "DSL", 29.85, 29.85, 1, "No", map[string]string{"customerID": "c1"}),
		NewCustomerRecord("One year", "Fiber", 1889.5, 56.95, 34, "No", map[string]string{"customerID": "c2"}),
		NewCustomerRecord("Month-to-month", "Fiber", 108.15, 53.85, 2, "Yes", map[string]string{"customerID": "c3"}),
		NewCustomerRecord("Two year", "DSL", 1840.75, 42.3, 45, "No", map[string]string{"customerID": "c4"}),
	}
	return NewDataset(headers, records)
}

func ids(ds *Dataset) []string {
	return ds.Column("customerID")
}

func TestApply_BothPredicatesMustHold(t *testing.T) {
	ds := fixtureDataset()

	got := Apply(ds, NewSelection([]string{"Month-to-month"}, []string{"Fiber"}))

	require.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"c3"}, ids(got))
}

func TestApply_OrWithinDimensionPreservesOrder(t *testing.T) {
	ds := fixtureDataset()

	got := Apply(ds, NewSelection([]string{"Two year", "Month-to-month"}, []string{"DSL", "Fiber"}))

	assert.Equal(t, []string{"c1", "c3", "c4"}, ids(got))
}

func TestApply_EmptySetYieldsEmptyDataset(t *testing.T) {
	ds := fixtureDataset()

	tests := []struct {
		name string
		sel  FilterSelection
	}{
		{"no contracts", NewSelection(nil, DistinctInternetServices(ds))},
		{"no internet services", NewSelection(DistinctContracts(ds), []string{})},
		{"nothing", FilterSelection{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(ds, tt.sel)
			require.NotNil(t, got)
			assert.True(t, got.IsEmpty())
			assert.Equal(t, ds.Headers(), got.Headers())
			assert.NotNil(t, got.Records())
		})
	}
}

func TestApply_FullSelectionIsIdentity(t *testing.T) {
	ds := fixtureDataset()

	got := Apply(ds, DefaultSelection(ds))

	assert.Equal(t, ds.Records(), got.Records())
	assert.Equal(t, ds.Headers(), got.Headers())
}

func TestApply_UnknownValuesNeverMatch(t *testing.T) {
	ds := fixtureDataset()

	got := Apply(ds, NewSelection([]string{"Three year"}, DistinctInternetServices(ds)))

	assert.True(t, got.IsEmpty())
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	ds := fixtureDataset()
	before := ds.Records()

	_ = Apply(ds, NewSelection([]string{"One year"}, []string{"Fiber"}))
	_ = Apply(ds, FilterSelection{})

	assert.Equal(t, before, ds.Records())
}

func TestApply_Deterministic(t *testing.T) {
	ds := fixtureDataset()
	sel := NewSelection([]string{"Month-to-month", "One year"}, []string{"Fiber"})

	assert.Equal(t, Apply(ds, sel).Records(), Apply(ds, sel).Records())
}

func TestApply_MatchesBruteForce(t *testing.T) {
	ds := fixtureDataset()
	contracts := DistinctContracts(ds)
	services := DistinctInternetServices(ds)

	// every subset of each dimension
	for cm := 0; cm < 1<<len(contracts); cm++ {
		for sm := 0; sm < 1<<len(services); sm++ {
			selC := subset(contracts, cm)
			selS := subset(services, sm)

			got := Apply(ds, NewSelection(selC, selS))

			var want []string
			for _, rec := range ds.Records() {
				if contains(selC, rec.Contract) && contains(selS, rec.InternetService) {
					id, _ := rec.Value("customerID")
					want = append(want, id)
				}
			}
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, ids(got), "contracts=%v services=%v", selC, selS)
		}
	}
}

func TestDefaultSelection_FirstSeenOrder(t *testing.T) {
	ds := fixtureDataset()

	sel := DefaultSelection(ds)

	assert.Equal(t, []string{"Month-to-month", "One year", "Two year"}, sel.Contracts)
	assert.Equal(t, []string{"DSL", "Fiber"}, sel.InternetServices)
}

func TestNewSelection_Dedupes(t *testing.T) {
	sel := NewSelection([]string{"A", "B", "A"}, []string{"x", "x"})

	assert.Equal(t, []string{"A", "B"}, sel.Contracts)
	assert.Equal(t, []string{"x"}, sel.InternetServices)
}

func subset(values []string, mask int) []string {
	out := []string{}
	for i, v := range values {
		if mask&(1<<i) != 0 {
			out = append(out, v)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
