package views

import (
	"sort"

	"churnscope/domain/churn"
)

// PreviewRows is how many rows the overview shows
const PreviewRows = 10

// BuildOverview returns the preview table and headline counts
func BuildOverview(ds *churn.Dataset) Overview {
	headers := ds.Headers()
	head := ds.Head(PreviewRows)
	preview := make([][]string, len(head))
	for i, rec := range head {
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j], _ = rec.Value(h)
		}
		preview[i] = row
	}
	return Overview{
		Headers:          headers,
		Preview:          preview,
		TotalCustomers:   ds.Len(),
		ChurnedCustomers: ds.ChurnedCount(),
	}
}

// BuildChurnPie counts customers per Churn value, largest first, ties in first-seen order
func BuildChurnPie(ds *churn.Dataset) ChurnPie {
	counts := map[string]int{}
	order := []string{}
	for _, rec := range ds.Records() {
		if _, ok := counts[rec.Churn]; !ok {
			order = append(order, rec.Churn)
		}
		counts[rec.Churn]++
	}

	slices := make([]CategoryCount, len(order))
	for i, label := range order {
		slices[i] = CategoryCount{Label: label, Count: counts[label]}
	}
	sort.SliceStable(slices, func(i, j int) bool { return slices[i].Count > slices[j].Count })
	return ChurnPie{Slices: slices}
}

// BuildBubble returns one point per customer
func BuildBubble(ds *churn.Dataset) Bubble {
	points := make([]BubblePoint, 0, ds.Len())
	for _, rec := range ds.Records() {
		pm, _ := rec.Value(churn.ColumnPaymentMethod)
		points = append(points, BubblePoint{
			MonthlyCharges: rec.MonthlyCharges,
			TotalCharges:   rec.TotalCharges,
			Tenure:         rec.Tenure,
			Churn:          rec.Churn,
			Contract:       rec.Contract,
			PaymentMethod:  pm,
		})
	}
	return Bubble{Points: points}
}

// BuildTenureTrend counts churned and retained customers per tenure, ascending
func BuildTenureTrend(ds *churn.Dataset) TenureTrend {
	byTenure := map[int]*TenurePoint{}
	for _, rec := range ds.Records() {
		p, ok := byTenure[rec.Tenure]
		if !ok {
			p = &TenurePoint{Tenure: rec.Tenure}
			byTenure[rec.Tenure] = p
		}
		switch rec.Churn {
		case churn.ChurnYes:
			p.Yes++
		case churn.ChurnNo:
			p.No++
		}
	}

	points := make([]TenurePoint, 0, len(byTenure))
	for _, p := range byTenure {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Tenure < points[j].Tenure })
	return TenureTrend{Points: points}
}

// BuildHierarchy groups customers by contract then churn, both sorted by label
func BuildHierarchy(ds *churn.Dataset) Hierarchy {
	type key struct{ contract, churn string }
	leafCounts := map[key]int{}
	parentCounts := map[string]int{}
	for _, rec := range ds.Records() {
		leafCounts[key{rec.Contract, rec.Churn}]++
		parentCounts[rec.Contract]++
	}

	leaves := make([]HierarchyLeaf, 0, len(leafCounts))
	for k, n := range leafCounts {
		leaves = append(leaves, HierarchyLeaf{Contract: k.contract, Churn: k.churn, Count: n})
	}
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].Contract != leaves[j].Contract {
			return leaves[i].Contract < leaves[j].Contract
		}
		return leaves[i].Churn < leaves[j].Churn
	})

	parents := make([]CategoryCount, 0, len(parentCounts))
	for label, n := range parentCounts {
		parents = append(parents, CategoryCount{Label: label, Count: n})
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i].Label < parents[j].Label })

	return Hierarchy{Parents: parents, Leaves: leaves, Total: ds.Len()}
}
