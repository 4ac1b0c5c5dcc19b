package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistdash/api/dataset"
	"olistdash/api/models"
	"olistdash/api/store"
)

func strPtr(s string) *string { return &s }

func testRecord(t *testing.T, orderID, customer, state, segment string, revenue float64, purchased string) models.OrderRecord {
	t.Helper()
	r := models.OrderRecord{
		OrderID:          orderID,
		CustomerUniqueID: customer,
		OrderRevenue:     revenue,
	}
	if state != "" {
		r.CustomerState = strPtr(state)
	}
	if segment != "" {
		r.RFMSegment = strPtr(segment)
	}
	if purchased != "" {
		ts, err := time.Parse("2006-01-02 15:04:05", purchased)
		require.NoError(t, err)
		ts = ts.UTC()
		r.PurchaseTime = &ts
	}
	return r
}

func testRouter(records []models.OrderRecord) *gin.Engine {
	gin.SetMode(gin.TestMode)

	s := store.NewAnalyticsStore(&dataset.Dataset{Path: "main_data.csv", Records: records})
	h := NewDashboardHandlers(s)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", h.Health)
	dashboard := api.Group("/dashboard")
	dashboard.GET("/kpis", h.GetKPIs)
	dashboard.GET("/segments/revenue", h.GetSegmentRevenue)
	dashboard.GET("/segments/customers", h.GetSegmentCustomers)
	dashboard.GET("/segments/avg-revenue", h.GetSegmentAvgRevenue)
	dashboard.GET("/states", h.GetStatePerformance)
	dashboard.GET("/map", h.GetMapSample)
	dashboard.GET("/filters", h.GetFilterOptions)
	dashboard.GET("/export", h.ExportReport)
	return r
}

func testRecords(t *testing.T) []models.OrderRecord {
	t.Helper()
	return []models.OrderRecord{
		testRecord(t, "o1", "A", "SP", "Champions", 100, "2018-01-15 10:00:00"),
		testRecord(t, "o2", "B", "SP", "Champions", 50, "2018-02-10 11:30:00"),
		testRecord(t, "o3", "C", "RJ", "At Risk", 30, "2018-03-05 09:00:00"),
	}
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "main_data.csv", body["data_file"])
	assert.Equal(t, float64(3), body["rows"])
}

func TestGetKPIsDefaultsToFullDateRange(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/dashboard/kpis")
	require.Equal(t, http.StatusOK, w.Code)

	var k models.KPISummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &k))
	assert.Equal(t, 180.0, k.TotalRevenue)
	assert.Equal(t, 3, k.TotalOrders)
	assert.Equal(t, 3, k.TotalCustomers)
	assert.Equal(t, 60.0, k.AverageOrderValue)
}

func TestGetKPIsFiltered(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/dashboard/kpis?start=2018-01-01&end=2018-01-31")
	require.Equal(t, http.StatusOK, w.Code)

	var k models.KPISummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &k))
	assert.Equal(t, 100.0, k.TotalRevenue)
	assert.Equal(t, 1, k.TotalOrders)
}

func TestBadDateParam(t *testing.T) {
	r := testRouter(testRecords(t))
	for _, url := range []string{
		"/api/dashboard/kpis?start=01-15-2018",
		"/api/dashboard/segments/revenue?end=notadate",
	} {
		w := get(r, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestGetSegmentRevenue(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/dashboard/segments/revenue")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.SegmentRevenue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Champions", rows[0].Segment)
	assert.Equal(t, 150.0, rows[0].TotalRevenue)
}

func TestGetSegmentAvgRevenueRendersNull(t *testing.T) {
	records := append(testRecords(t),
		testRecord(t, "o4", "", "SP", "Phantom", 10, "2018-01-20 10:00:00"))
	w := get(testRouter(records), "/api/dashboard/segments/avg-revenue")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.SegmentAvgRevenue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Phantom", rows[2].Segment)
	assert.Nil(t, rows[2].AvgRevenuePerCustomer)
	assert.Contains(t, w.Body.String(), `"avg_revenue_per_customer":null`)
}

func TestGetStatePerformance(t *testing.T) {
	r := testRouter(testRecords(t))

	w := get(r, "/api/dashboard/states")
	require.Equal(t, http.StatusOK, w.Code)
	var byRevenue []models.StatePerformance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byRevenue))
	require.Len(t, byRevenue, 2)
	assert.Equal(t, "SP", byRevenue[0].State)

	w = get(r, "/api/dashboard/states?by=orders&limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	var byOrders []models.StatePerformance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byOrders))
	require.Len(t, byOrders, 1)
	assert.Equal(t, "SP", byOrders[0].State)
	assert.Equal(t, 2, byOrders[0].TotalOrders)
}

func TestGetStatePerformanceBadParams(t *testing.T) {
	r := testRouter(testRecords(t))
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/dashboard/states?by=customers").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/dashboard/states?limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/dashboard/states?limit=ten").Code)
}

func TestGetMapSampleUnavailable(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/dashboard/map")
	require.Equal(t, http.StatusOK, w.Code)

	var sample models.MapSample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
	assert.False(t, sample.Available)
	assert.NotEmpty(t, sample.Message)
}

func TestGetMapSampleAvailable(t *testing.T) {
	lat, lng := -23.55, -46.63
	records := testRecords(t)
	records[0].GeoLat = &lat
	records[0].GeoLng = &lng

	w := get(testRouter(records), "/api/dashboard/map")
	require.Equal(t, http.StatusOK, w.Code)

	var sample models.MapSample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
	require.True(t, sample.Available)
	require.Len(t, sample.Points, 1)
	require.NotNil(t, sample.Center)
	assert.InDelta(t, lat, sample.Center.Lat, 1e-9)
	assert.InDelta(t, lng, sample.Center.Lng, 1e-9)
}

func TestGetFilterOptions(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/dashboard/filters")
	require.Equal(t, http.StatusOK, w.Code)

	var opts models.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, "2018-01-15", opts.MinDate)
	assert.Equal(t, "2018-03-05", opts.MaxDate)
	assert.Equal(t, []string{"RJ", "SP"}, opts.States)
	assert.Equal(t, []string{"At Risk", "Champions"}, opts.Segments)
}

func TestExportReport(t *testing.T) {
	w := get(testRouter(testRecords(t)), "/api/dashboard/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}
