// api/handlers/export_handlers.go
package handlers

import (
	"fmt"
	"log"
	"net/http"

	"olistdash/api/models"
	"olistdash/api/store"
	"olistdash/api/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReport streams the current dashboard view as an xlsx workbook: one
// sheet of KPIs, one per RFM table, one for state performance. The workbook
// reflects exactly the filter the query parameters resolve to.
func (h *DashboardHandlers) ExportReport(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	rows := h.AnalyticsStore.Filtered(params)

	f := excelize.NewFile()
	defer f.Close()

	if err := writeReportSheets(f, rows, params); err != nil {
		log.Printf("Error building xlsx report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	filename := fmt.Sprintf("olist_dashboard_%s_%s.xlsx",
		utils.FormatDate(params.StartDate), utils.FormatDate(params.EndDate))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)

	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; all we can do is log.
		log.Printf("Error streaming xlsx report: %v", err)
	}
}

func writeReportSheets(f *excelize.File, rows []models.OrderRecord, params models.FilterParams) error {
	const kpiSheet = "KPIs"
	if err := f.SetSheetName("Sheet1", kpiSheet); err != nil {
		return fmt.Errorf("failed to rename KPI sheet: %w", err)
	}

	k := store.KPIs(rows)
	state, segment := params.State, params.Segment
	if state == "" {
		state = "(All)"
	}
	if segment == "" {
		segment = "(All)"
	}
	kpiRows := [][]interface{}{
		{"Start Date", utils.FormatDate(params.StartDate)},
		{"End Date", utils.FormatDate(params.EndDate)},
		{"State", state},
		{"RFM Segment", segment},
		{},
		{"Total Revenue", k.TotalRevenue},
		{"Total Orders", k.TotalOrders},
		{"Total Customers", k.TotalCustomers},
		{"Average Order Value", k.AverageOrderValue},
	}
	for i, row := range kpiRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(kpiSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write KPI row %d: %w", i+1, err)
		}
	}

	const rfmSheet = "RFM Segments"
	if _, err := f.NewSheet(rfmSheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", rfmSheet, err)
	}
	header := []interface{}{"rfm_segment", "customers", "total_revenue", "avg_revenue_per_customer"}
	if err := f.SetSheetRow(rfmSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write RFM header: %w", err)
	}
	for i, seg := range store.SegmentAvgRevenues(rows) {
		row := []interface{}{seg.Segment, seg.Customers, seg.TotalRevenue}
		if seg.AvgRevenuePerCustomer != nil {
			row = append(row, *seg.AvgRevenuePerCustomer)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rfmSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write RFM row %d: %w", i+2, err)
		}
	}

	const stateSheet = "State Performance"
	if _, err := f.NewSheet(stateSheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", stateSheet, err)
	}
	header = []interface{}{"customer_state", "total_orders", "total_revenue"}
	if err := f.SetSheetRow(stateSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write state header: %w", err)
	}
	for i, st := range store.StatePerf(rows) {
		row := []interface{}{st.State, st.TotalOrders, st.TotalRevenue}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(stateSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write state row %d: %w", i+2, err)
		}
	}

	return nil
}
