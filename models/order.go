// api/models/order.go
package models

import "time"

// OrderRecord is one row of the denormalized order dataset. The dataset is
// pre-joined upstream, so the same order_id can appear on several rows (one
// per item / geolocation match) and revenue is attributed per row.
type OrderRecord struct {
	OrderID          string     `json:"orderId"`
	CustomerUniqueID string     `json:"customerUniqueId"`
	CustomerState    *string    `json:"customerState,omitempty"`
	RFMSegment       *string    `json:"rfmSegment,omitempty"`
	OrderRevenue     float64    `json:"orderRevenue"`
	PurchaseTime     *time.Time `json:"purchaseTimestamp,omitempty"`
	GeoLat           *float64   `json:"geolocationLat,omitempty"`
	GeoLng           *float64   `json:"geolocationLng,omitempty"`
}

// FilterParams is the immutable filter configuration a dashboard request
// resolves to. Date bounds are inclusive calendar dates. An empty State or
// Segment means that dimension is not filtered.
type FilterParams struct {
	StartDate time.Time
	EndDate   time.Time
	State     string
	Segment   string
}
