package ui

import (
	"net/url"
	"testing"

	"churnscope/domain/churn"

	"github.com/stretchr/testify/assert"
)

func selectionDataset() *churn.Dataset {
	return churn.NewDataset([]string{"Contract", "InternetService"}, []churn.CustomerRecord{
		churn.NewCustomerRecord("Month-to-month", "DSL", 0, 0, 0, "No", nil),
		churn.NewCustomerRecord("Two year", "Fiber optic", 0, 0, 0, "No", nil),
	})
}

func TestSelectionFromQuery_AbsentSelectsAll(t *testing.T) {
	sel := selectionFromQuery(url.Values{}, selectionDataset())

	assert.Equal(t, []string{"Month-to-month", "Two year"}, sel.Contracts)
	assert.Equal(t, []string{"DSL", "Fiber optic"}, sel.InternetServices)
}

func TestSelectionFromQuery_PresentButBlankSelectsNothing(t *testing.T) {
	q, _ := url.ParseQuery("contract=&internet=DSL")

	sel := selectionFromQuery(q, selectionDataset())

	assert.Empty(t, sel.Contracts)
	assert.Equal(t, []string{"DSL"}, sel.InternetServices)
	assert.True(t, sel.IsEmpty())
}

func TestSelectionFromQuery_RepeatedValuesDeduped(t *testing.T) {
	q, _ := url.ParseQuery("contract=Two+year&contract=&contract=Two+year&contract=Unknown")

	sel := selectionFromQuery(q, selectionDataset())

	assert.Equal(t, []string{"Two year", "Unknown"}, sel.Contracts)
}

func TestSelectionQuery_RoundTrips(t *testing.T) {
	ds := selectionDataset()
	for _, sel := range []churn.FilterSelection{
		churn.NewSelection([]string{"Two year"}, []string{"DSL", "Fiber optic"}),
		churn.NewSelection(nil, []string{"DSL"}),
		churn.NewSelection(nil, nil),
	} {
		q, err := url.ParseQuery(selectionQuery(sel))
		assert.NoError(t, err)
		assert.ElementsMatch(t, sel.Contracts, selectionFromQuery(q, ds).Contracts)
		assert.ElementsMatch(t, sel.InternetServices, selectionFromQuery(q, ds).InternetServices)
	}
}
