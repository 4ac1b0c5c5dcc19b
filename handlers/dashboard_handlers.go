// api/handlers/dashboard_handlers.go
package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"olistdash/api/models"
	"olistdash/api/store"
	"olistdash/api/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandlers struct {
	AnalyticsStore *store.AnalyticsStore
}

func NewDashboardHandlers(s *store.AnalyticsStore) *DashboardHandlers {
	return &DashboardHandlers{
		AnalyticsStore: s,
	}
}

// filterParams resolves the shared query parameters (start, end, state,
// segment) into a FilterParams value. Missing date bounds default to the
// dataset's own min/max purchase dates, matching the date picker's bounds.
// Returns false after writing a 400 response when a date is malformed.
func (h *DashboardHandlers) filterParams(c *gin.Context) (models.FilterParams, bool) {
	opts := h.AnalyticsStore.Options()

	params := models.FilterParams{
		State:   c.Query("state"),
		Segment: c.Query("segment"),
	}

	startParam := c.Query("start")
	if startParam == "" {
		startParam = opts.MinDate
	}
	endParam := c.Query("end")
	if endParam == "" {
		endParam = opts.MaxDate
	}

	var err error
	if startParam != "" {
		params.StartDate, err = utils.ParseDate(startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' date format. Use YYYY-MM-DD (e.g., 2017-06-01)"})
			return models.FilterParams{}, false
		}
	}
	if endParam != "" {
		params.EndDate, err = utils.ParseDate(endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' date format. Use YYYY-MM-DD (e.g., 2018-08-31)"})
			return models.FilterParams{}, false
		}
	}

	return params, true
}

func (h *DashboardHandlers) Health(c *gin.Context) {
	ds := h.AnalyticsStore.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"data_file": filepath.Base(ds.Path),
		"rows":      len(ds.Records),
	})
}

func (h *DashboardHandlers) GetKPIs(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.KPIs(h.AnalyticsStore.Filtered(params)))
}

func (h *DashboardHandlers) GetSegmentRevenue(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.SegmentRevenues(h.AnalyticsStore.Filtered(params)))
}

func (h *DashboardHandlers) GetSegmentCustomers(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.SegmentCustomerCounts(h.AnalyticsStore.Filtered(params)))
}

func (h *DashboardHandlers) GetSegmentAvgRevenue(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.SegmentAvgRevenues(h.AnalyticsStore.Filtered(params)))
}

// GetStatePerformance serves both state charts. ?by=revenue (default) ranks by
// revenue; ?by=orders re-sorts the same aggregation by order count. ?limit
// caps the rows returned (default 10, the dashboard's top-10 views; 0 means
// no cap).
func (h *DashboardHandlers) GetStatePerformance(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	by := c.DefaultQuery("by", "revenue")
	if by != "revenue" && by != "orders" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'by' parameter. Must be 'revenue' or 'orders'."})
		return
	}

	limit := 10
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a non-negative integer."})
			return
		}
		limit = parsed
	}

	perf := store.StatePerf(h.AnalyticsStore.Filtered(params))
	if by == "orders" {
		perf = store.StatePerfByOrders(perf)
	}
	if limit > 0 && len(perf) > limit {
		perf = perf[:limit]
	}

	log.Printf("State performance: by=%s limit=%d rows=%d", by, limit, len(perf))
	c.JSON(http.StatusOK, perf)
}

func (h *DashboardHandlers) GetMapSample(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.MapSample(h.AnalyticsStore.Filtered(params)))
}

func (h *DashboardHandlers) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.AnalyticsStore.Options())
}
