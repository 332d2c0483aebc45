package stats

// Summary is the dashboard tally for one caller. Fields that do not apply to
// the caller's role stay zero.
type Summary struct {
	TotalOrders     int64  `json:"total_orders"`
	TotalRevenue    string `json:"total_revenue"`
	PendingOrders   int64  `json:"pending_orders"`
	CompletedOrders int64  `json:"completed_orders"`
	TotalProducts   int64  `json:"total_products"`
	ActivePartners  int64  `json:"active_partners"`
}
