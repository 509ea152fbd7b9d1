package churn

// NewSelection builds a FilterSelection, dropping duplicate values and keeping first-seen order
func NewSelection(contracts, internetServices []string) FilterSelection {
	return FilterSelection{
		Contracts:        dedupe(contracts),
		InternetServices: dedupe(internetServices),
	}
}

// DefaultSelection selects every contract and internet service present in the dataset
func DefaultSelection(ds *Dataset) FilterSelection {
	return FilterSelection{
		Contracts:        DistinctContracts(ds),
		InternetServices: DistinctInternetServices(ds),
	}
}

// DistinctContracts returns the contract values in first-seen order
func DistinctContracts(ds *Dataset) []string {
	return distinct(ds, func(r CustomerRecord) string { return r.Contract })
}

// DistinctInternetServices returns the internet-service values in first-seen order
func DistinctInternetServices(ds *Dataset) []string {
	return distinct(ds, func(r CustomerRecord) string { return r.InternetService })
}

// IsEmpty reports whether either dimension has nothing selected, which matches no rows
func (s FilterSelection) IsEmpty() bool {
	return len(s.Contracts) == 0 || len(s.InternetServices) == 0
}

// Apply returns the records whose contract and internet service are both selected.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// An empty set in either dimension yields an empty dataset with the same headers.
// Row order follows ds; ds is never modified.
func Apply(ds *Dataset, sel FilterSelection) *Dataset {
	if ds == nil {
		return NewDataset(nil, nil)
	}
	if sel.IsEmpty() {
		return &Dataset{headers: ds.Headers(), records: []CustomerRecord{}}
	}

	contracts := toSet(sel.Contracts)
	services := toSet(sel.InternetServices)

	matched := make([]CustomerRecord, 0, len(ds.records))
	for _, rec := range ds.records {
		if contracts[rec.Contract] && services[rec.InternetService] {
			matched = append(matched, rec)
		}
	}

	return &Dataset{headers: ds.Headers(), records: matched}
}

func distinct(ds *Dataset, key func(CustomerRecord) string) []string {
	if ds == nil {
		return []string{}
	}
	seen := make(map[string]bool)
	values := []string{}
	for _, rec := range ds.records {
		k := key(rec)
		if !seen[k] {
			seen[k] = true
			values = append(values, k)
		}
	}
	return values
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
