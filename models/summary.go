// api/models/summary.go
package models

// Summary tables derived from a filtered dataset. Column names in the JSON
// payloads match the chart axes the frontend binds to.

type SegmentCustomerCount struct {
	Segment   string `json:"rfm_segment"`
	Customers int    `json:"customers"`
}

type SegmentRevenue struct {
	Segment      string  `json:"rfm_segment"`
	TotalRevenue float64 `json:"total_revenue"`
}

type SegmentAvgRevenue struct {
	Segment      string  `json:"rfm_segment"`
	Customers    int     `json:"customers"`
	TotalRevenue float64 `json:"total_revenue"`
	// AvgRevenuePerCustomer is nil when the group has no countable
	// customers. That renders as JSON null, never as 0.
	AvgRevenuePerCustomer *float64 `json:"avg_revenue_per_customer"`
}

type StatePerformance struct {
	State        string  `json:"customer_state"`
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

type KPISummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	TotalCustomers    int     `json:"total_customers"`
	AverageOrderValue float64 `json:"average_order_value"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapSample is the payload behind the customer map: a capped point set plus
// the centroid used for initial map centering. Available is false when the
// dataset carries no usable coordinates at all.
type MapSample struct {
	Available bool       `json:"available"`
	Message   string     `json:"message,omitempty"`
	Center    *GeoPoint  `json:"center,omitempty"`
	Points    []GeoPoint `json:"points,omitempty"`
	Sampled   bool       `json:"sampled"`
	TotalRows int        `json:"total_rows"`
}

// FilterOptions backs the dashboard's filter controls: date-picker bounds and
// the dropdown values (each rendered behind an "(All)" sentinel client-side).
type FilterOptions struct {
	MinDate  string   `json:"min_date"`
	MaxDate  string   `json:"max_date"`
	States   []string `json:"states"`
	Segments []string `json:"segments"`
}
