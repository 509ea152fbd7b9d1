package ui

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"churnscope/domain/churn"
	"churnscope/domain/core"
	"churnscope/internal/dataset"
	apperrors "churnscope/internal/errors"
	"churnscope/internal/render"
	"churnscope/internal/views"
	"churnscope/ui/middleware"
	"churnscope/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

type tab struct {
	Name     views.Name
	Title    string
	Chart    bool
	ChartURL string
	Active   bool
}

type dashboardPage struct {
	Title     string
	RequestID string

	Contracts        []string
	InternetServices []string
	SelectedContract map[string]bool
	SelectedInternet map[string]bool
	Query            string

	Summary   template.HTML
	Overview  views.Overview
	Heatmap   template.HTML
	WithChurn []views.FeatureCorrelation
	Tabs      []tab
	Report    *dataset.LoadReport
}

// handleIndex serves the dashboard for the filter in the query string
func (s *Server) handleIndex(c *gin.Context) {
	ds, err := s.store.Dataset()
	if err != nil {
		s.renderErrorPage(c, err)
		return
	}

	sel := selectionFromQuery(c.Request.URL.Query(), ds)
	filtered := churn.Apply(ds, sel)

	d, err := views.BuildAll(c.Request.Context(), filtered)
	if err != nil {
		s.renderErrorPage(c, apperrors.Wrap(err, "failed to build views"))
		return
	}
	heatmap, err := render.Heatmap(d.Correlations.Matrix)
	if err != nil {
		s.renderErrorPage(c, apperrors.Wrap(err, "failed to render heatmap"))
		return
	}

	query := selectionQuery(sel)
	active := views.ViewOverview
	if n, ok := views.ParseName(c.Query("tab")); ok {
		active = n
	}
	tabs := make([]tab, len(views.AllViews))
	for i, n := range views.AllViews {
		t := tab{Name: n, Title: n.Title(), Active: n == active}
		if render.IsChart(n) {
			t.Chart = true
			t.ChartURL = "/charts/" + string(n) + ".png?" + query
		}
		tabs[i] = t
	}

	s.renderTemplate(c, http.StatusOK, fragments.Dashboard, dashboardPage{
		Title:            "Customer Churn Dashboard",
		RequestID:        middleware.GetRequestID(c),
		Contracts:        churn.DistinctContracts(ds),
		InternetServices: churn.DistinctInternetServices(ds),
		SelectedContract: selectedSet(sel.Contracts),
		SelectedInternet: selectedSet(sel.InternetServices),
		Query:            query,
		Summary:          render.Markdown(render.SummaryMarkdown(d.Overview, sel.Contracts, sel.InternetServices)),
		Overview:         d.Overview,
		Heatmap:          heatmap,
		WithChurn:        d.Correlations.WithChurn,
		Tabs:             tabs,
		Report:           s.store.Report(),
	})
}

// handleChart serves /charts/<view>.png for the filter in the query string
func (s *Server) handleChart(c *gin.Context) {
	file := c.Param("file")
	name, ok := views.ParseName(strings.TrimSuffix(file, ".png"))
	if !ok || !strings.HasSuffix(file, ".png") || !render.IsChart(name) {
		s.respondError(c, apperrors.NotFound("chart "+file))
		return
	}

	filtered, sel, ok := s.filtered(c)
	if !ok {
		return
	}

	etag := s.chartETag(name, sel)
	c.Header("Cache-Control", "no-cache")
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	d, err := views.Partial(filtered, name)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := render.Chart(c.Writer, d, name); err != nil {
		s.logger.Error("Failed to render chart %s: %v", name, err)
	}
}

// chartETag changes whenever the view, the selection or the loaded dataset changes
func (s *Server) chartETag(name views.Name, sel churn.FilterSelection) string {
	var version string
	if report := s.store.Report(); report != nil {
		version = report.LoadedAt.Format(time.RFC3339Nano)
	}
	h := core.ComputeSelectionHash(string(name), version, map[string][]string{
		"contract": sel.Contracts,
		"internet": sel.InternetServices,
	})
	return `"` + h.Short(32) + `"`
}

// filtered applies the query-string filter to the loaded dataset. On failure it has
// already written the error response.
func (s *Server) filtered(c *gin.Context) (*churn.Dataset, churn.FilterSelection, bool) {
	ds, err := s.store.Dataset()
	if err != nil {
		s.respondError(c, err)
		return nil, churn.FilterSelection{}, false
	}
	sel := selectionFromQuery(c.Request.URL.Query(), ds)
	return churn.Apply(ds, sel), sel, true
}
