package ui

import (
	"net/http"
	"strconv"
	"time"

	"churnscope/domain/churn"
	apperrors "churnscope/internal/errors"
	"churnscope/internal/render"
	"churnscope/internal/views"

	"github.com/gin-gonic/gin"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 1000
)

// handleOptions lists the filter values present in the dataset
func (s *Server) handleOptions(c *gin.Context) {
	ds, err := s.store.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"contracts":         churn.DistinctContracts(ds),
		"internet_services": churn.DistinctInternetServices(ds),
	})
}

type viewInfo struct {
	Name  views.Name `json:"name"`
	Title string     `json:"title"`
	Chart bool       `json:"chart"`
}

// handleListViews lists the dashboard tabs
func (s *Server) handleListViews(c *gin.Context) {
	out := make([]viewInfo, len(views.AllViews))
	for i, n := range views.AllViews {
		out[i] = viewInfo{Name: n, Title: n.Title(), Chart: render.IsChart(n)}
	}
	c.JSON(http.StatusOK, gin.H{"views": out})
}

// handleView returns one view's aggregate for the query-string filter
func (s *Server) handleView(c *gin.Context) {
	name, ok := views.ParseName(c.Param("name"))
	if !ok {
		s.respondError(c, apperrors.NotFound("view "+c.Param("name")))
		return
	}

	filtered, sel, ok := s.filtered(c)
	if !ok {
		return
	}
	data, err := views.Build(filtered, name)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view":      name,
		"title":     name.Title(),
		"selection": sel,
		"rows":      filtered.Len(),
		"data":      data,
	})
}

// handleRecords pages through the filtered rows, all columns in header order
func (s *Server) handleRecords(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultRecordLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if limit > maxRecordLimit {
		limit = maxRecordLimit
	}

	filtered, sel, ok := s.filtered(c)
	if !ok {
		return
	}

	headers := filtered.Headers()
	records := filtered.Records()
	start := offset
	if start > len(records) {
		start = len(records)
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}

	rows := make([][]string, 0, end-start)
	for _, rec := range records[start:end] {
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j], _ = rec.Value(h)
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"selection": sel,
		"total":     len(records),
		"offset":    offset,
		"limit":     limit,
		"headers":   headers,
		"rows":      rows,
	})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidInput(key + " must be a non-negative integer")
	}
	return n, nil
}

type datasetStatus struct {
	State               string     `json:"state"`
	Source              string     `json:"source,omitempty"`
	Rows                int        `json:"rows"`
	Columns             int        `json:"columns"`
	ImputedTotalCharges int        `json:"imputed_total_charges"`
	TotalChargesMedian  float64    `json:"total_charges_median"`
	LoadDurationMs      int64      `json:"load_duration_ms"`
	LoadedAt            *time.Time `json:"loaded_at,omitempty"`
	Error               *errorBody `json:"error,omitempty"`
}

// handleDatasetStatus reports the store's lifecycle state and load report
func (s *Server) handleDatasetStatus(c *gin.Context) {
	status := datasetStatus{State: s.store.State().String()}
	if report := s.store.Report(); report != nil {
		loadedAt := report.LoadedAt
		status.Source = report.Source
		status.Rows = report.Rows
		status.Columns = report.Columns
		status.ImputedTotalCharges = report.ImputedTotalCharges
		status.TotalChargesMedian = report.TotalChargesMedian
		status.LoadDurationMs = report.Duration.Milliseconds()
		status.LoadedAt = &loadedAt
	}
	if err := s.store.Err(); err != nil {
		status.Error = &errorBody{Code: apperrors.GetCode(err), Message: err.Error()}
	}
	c.JSON(http.StatusOK, status)
}
