package render

import (
	"fmt"
	"html/template"
	"strings"

	"churnscope/internal/views"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// SummaryMarkdown describes the filtered data in a few lines of markdown
func SummaryMarkdown(o views.Overview, contracts, services []string) string {
	var b strings.Builder
	b.WriteString("### Customer overview\n\n")
	fmt.Fprintf(&b, "- **Total customers:** %d\n", o.TotalCustomers)
	fmt.Fprintf(&b, "- **Churned customers:** %d", o.ChurnedCustomers)
	if o.TotalCustomers > 0 {
		fmt.Fprintf(&b, " (%.1f%%)", 100*float64(o.ChurnedCustomers)/float64(o.TotalCustomers))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Contracts:** %s\n", selectionText(contracts))
	fmt.Fprintf(&b, "- **Internet service:** %s\n", selectionText(services))
	if o.TotalCustomers == 0 {
		b.WriteString("\n_No customers match the current filters._\n")
	}
	return b.String()
}

func selectionText(values []string) string {
	if len(values) == 0 {
		return "_none selected_"
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = "`" + strings.ReplaceAll(v, "`", "") + "`"
	}
	return strings.Join(escaped, ", ")
}

// Markdown converts md to HTML. Raw HTML in the input is escaped.
func Markdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}
