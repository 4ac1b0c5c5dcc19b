// api/store/analytics_store.go
package store

import (
	"sort"

	"olistdash/api/dataset"
	"olistdash/api/models"
	"olistdash/api/utils"
)

// AnalyticsStore serves dashboard queries over one in-memory dataset. Every
// query filters and aggregates from scratch; nothing here mutates the dataset,
// so concurrent requests can share a single store.
type AnalyticsStore struct {
	ds      *dataset.Dataset
	options models.FilterOptions
}

func NewAnalyticsStore(ds *dataset.Dataset) *AnalyticsStore {
	return &AnalyticsStore{
		ds:      ds,
		options: FilterOptions(ds.Records),
	}
}

func (s *AnalyticsStore) Dataset() *dataset.Dataset {
	return s.ds
}

// Options returns the filter metadata (date bounds, dropdown values) computed
// once at startup; the dataset never changes underneath a running store.
func (s *AnalyticsStore) Options() models.FilterOptions {
	return s.options
}

// Filtered applies params to the full dataset.
func (s *AnalyticsStore) Filtered(params models.FilterParams) []models.OrderRecord {
	return FilterOrders(s.ds.Records, params)
}

// FilterOrders keeps rows whose purchase date falls inside the inclusive
// [StartDate, EndDate] range and which match the optional state and segment
// filters. Rows without a purchase timestamp never match. An inverted range
// yields an empty result, not an error.
func FilterOrders(rows []models.OrderRecord, params models.FilterParams) []models.OrderRecord {
	start := utils.DateOf(params.StartDate)
	end := utils.DateOf(params.EndDate)

	out := make([]models.OrderRecord, 0, len(rows))
	for _, r := range rows {
		if r.PurchaseTime == nil {
			continue
		}
		d := utils.DateOf(*r.PurchaseTime)
		if d.Before(start) || d.After(end) {
			continue
		}
		if params.State != "" && (r.CustomerState == nil || *r.CustomerState != params.State) {
			continue
		}
		if params.Segment != "" && (r.RFMSegment == nil || *r.RFMSegment != params.Segment) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SegmentCustomerCounts counts distinct customers per RFM segment, descending
// by count. Rows without a segment are excluded; ties keep first-seen segment
// order so identical input always yields identical output.
func SegmentCustomerCounts(rows []models.OrderRecord) []models.SegmentCustomerCount {
	customers := make(map[string]map[string]struct{})
	var order []string
	for _, r := range rows {
		if r.RFMSegment == nil {
			continue
		}
		seg := *r.RFMSegment
		set, ok := customers[seg]
		if !ok {
			set = make(map[string]struct{})
			customers[seg] = set
			order = append(order, seg)
		}
		if r.CustomerUniqueID != "" {
			set[r.CustomerUniqueID] = struct{}{}
		}
	}

	out := make([]models.SegmentCustomerCount, 0, len(order))
	for _, seg := range order {
		out = append(out, models.SegmentCustomerCount{Segment: seg, Customers: len(customers[seg])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Customers > out[j].Customers
	})
	return out
}

// SegmentRevenues sums order revenue per RFM segment, descending by revenue.
func SegmentRevenues(rows []models.OrderRecord) []models.SegmentRevenue {
	totals := make(map[string]float64)
	var order []string
	for _, r := range rows {
		if r.RFMSegment == nil {
			continue
		}
		seg := *r.RFMSegment
		if _, ok := totals[seg]; !ok {
			order = append(order, seg)
		}
		totals[seg] += r.OrderRevenue
	}

	out := make([]models.SegmentRevenue, 0, len(order))
	for _, seg := range order {
		out = append(out, models.SegmentRevenue{Segment: seg, TotalRevenue: totals[seg]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})
	return out
}

// SegmentAvgRevenues computes, per RFM segment, the distinct customer count,
// the revenue total, and revenue per customer. A group with zero countable
// customers gets a nil average rather than a division error or a fake zero,
// and such rows sort after every defined average.
func SegmentAvgRevenues(rows []models.OrderRecord) []models.SegmentAvgRevenue {
	type group struct {
		customers map[string]struct{}
		revenue   float64
	}
	groups := make(map[string]*group)
	var order []string
	for _, r := range rows {
		if r.RFMSegment == nil {
			continue
		}
		seg := *r.RFMSegment
		g, ok := groups[seg]
		if !ok {
			g = &group{customers: make(map[string]struct{})}
			groups[seg] = g
			order = append(order, seg)
		}
		if r.CustomerUniqueID != "" {
			g.customers[r.CustomerUniqueID] = struct{}{}
		}
		g.revenue += r.OrderRevenue
	}

	out := make([]models.SegmentAvgRevenue, 0, len(order))
	for _, seg := range order {
		g := groups[seg]
		row := models.SegmentAvgRevenue{
			Segment:      seg,
			Customers:    len(g.customers),
			TotalRevenue: g.revenue,
		}
		if row.Customers > 0 {
			avg := row.TotalRevenue / float64(row.Customers)
			row.AvgRevenuePerCustomer = &avg
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AvgRevenuePerCustomer, out[j].AvgRevenuePerCustomer
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
	return out
}

// StatePerf aggregates distinct order counts and revenue totals per customer
// state in a single grouping pass, descending by revenue. The orders-ranked
// view is a re-sort of this same table (StatePerfByOrders), never a second
// aggregation, so the two charts always agree on totals.
func StatePerf(rows []models.OrderRecord) []models.StatePerformance {
	type group struct {
		orders  map[string]struct{}
		revenue float64
	}
	groups := make(map[string]*group)
	var order []string
	for _, r := range rows {
		if r.CustomerState == nil {
			continue
		}
		st := *r.CustomerState
		g, ok := groups[st]
		if !ok {
			g = &group{orders: make(map[string]struct{})}
			groups[st] = g
			order = append(order, st)
		}
		if r.OrderID != "" {
			g.orders[r.OrderID] = struct{}{}
		}
		g.revenue += r.OrderRevenue
	}

	out := make([]models.StatePerformance, 0, len(order))
	for _, st := range order {
		g := groups[st]
		out = append(out, models.StatePerformance{
			State:        st,
			TotalOrders:  len(g.orders),
			TotalRevenue: g.revenue,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})
	return out
}

// StatePerfByOrders re-sorts a copy of an existing state performance table by
// total orders, descending. The input table is left untouched.
func StatePerfByOrders(perf []models.StatePerformance) []models.StatePerformance {
	out := make([]models.StatePerformance, len(perf))
	copy(out, perf)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalOrders > out[j].TotalOrders
	})
	return out
}

// KPIs computes the scalar rollups shown above the charts. AOV falls back to
// an explicit 0 when there are no orders: the KPI tile always shows a number.
func KPIs(rows []models.OrderRecord) models.KPISummary {
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	var revenue float64
	for _, r := range rows {
		revenue += r.OrderRevenue
		if r.OrderID != "" {
			orders[r.OrderID] = struct{}{}
		}
		if r.CustomerUniqueID != "" {
			customers[r.CustomerUniqueID] = struct{}{}
		}
	}

	k := models.KPISummary{
		TotalRevenue:   revenue,
		TotalOrders:    len(orders),
		TotalCustomers: len(customers),
	}
	if k.TotalOrders > 0 {
		k.AverageOrderValue = k.TotalRevenue / float64(k.TotalOrders)
	}
	return k
}

// FilterOptions scans the dataset for the values the filter controls offer:
// min/max purchase dates plus the distinct states and segments, ascending.
func FilterOptions(rows []models.OrderRecord) models.FilterOptions {
	var minDate, maxDate string
	states := make(map[string]struct{})
	segments := make(map[string]struct{})

	for _, r := range rows {
		if r.PurchaseTime != nil {
			d := utils.FormatDate(*r.PurchaseTime)
			if minDate == "" || d < minDate {
				minDate = d
			}
			if d > maxDate {
				maxDate = d
			}
		}
		if r.CustomerState != nil {
			states[*r.CustomerState] = struct{}{}
		}
		if r.RFMSegment != nil {
			segments[*r.RFMSegment] = struct{}{}
		}
	}

	opts := models.FilterOptions{MinDate: minDate, MaxDate: maxDate}
	for st := range states {
		opts.States = append(opts.States, st)
	}
	for seg := range segments {
		opts.Segments = append(opts.Segments, seg)
	}
	sort.Strings(opts.States)
	sort.Strings(opts.Segments)
	return opts
}
