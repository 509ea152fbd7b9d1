// Package fragments provides template name constants for the dashboard templates
package fragments

import "strings"

// Template names as registered by ParseFS (base file names)
const (
	// Pages
	Dashboard = "dashboard.html"
	ErrorPage = "error.html"

	// Fragments
	Filters       = "filters.html"
	OverviewTable = "overview_table.html"
	ChurnRanking  = "churn_ranking.html"
)

// Pages lists templates that render a complete HTML document
var Pages = []string{Dashboard, ErrorPage}

// IsPage reports whether name renders a complete HTML document
func IsPage(name string) bool {
	for _, p := range Pages {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}
