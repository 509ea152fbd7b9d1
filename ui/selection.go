package ui

import (
	"net/url"
	"strings"

	"churnscope/domain/churn"
)

// Query parameters carrying the filter. Each may repeat.
const (
	paramContract = "contract"
	paramInternet = "internet"
)

// selectionFromQuery reads the filter from q. An absent parameter selects every value in
// ds; a parameter that is present with only blank values selects nothing.
func selectionFromQuery(q url.Values, ds *churn.Dataset) churn.FilterSelection {
	contracts := queryValues(q, paramContract, func() []string { return churn.DistinctContracts(ds) })
	services := queryValues(q, paramInternet, func() []string { return churn.DistinctInternetServices(ds) })
	return churn.NewSelection(contracts, services)
}

func queryValues(q url.Values, key string, all func() []string) []string {
	raw, present := q[key]
	if !present {
		return all()
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// selectionQuery encodes sel so that selectionFromQuery reads it back unchanged,
// including empty dimensions
func selectionQuery(sel churn.FilterSelection) string {
	q := url.Values{}
	encode := func(key string, values []string) {
		if len(values) == 0 {
			q.Set(key, "")
			return
		}
		q[key] = append([]string{}, values...)
	}
	encode(paramContract, sel.Contracts)
	encode(paramInternet, sel.InternetServices)
	return q.Encode()
}

// selectedSet marks values for the template's checkbox state
func selectedSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
