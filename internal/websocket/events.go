package websocket

// Event names pushed to connected dashboards.
const (
	EventStockUpdated = "STOCK_UPDATED"
	EventLowStock     = "LOW_STOCK"
	EventNearExpiry   = "NEAR_EXPIRY"
)

// StockEvent is the broadcast payload for inventory changes. Quantity is the
// batch quantity after the change, not the delta.
type StockEvent struct {
	Event       string `json:"event"`
	ProductID   string `json:"product_id"`
	BatchID     string `json:"batch_id,omitempty"`
	BatchNumber string `json:"batch_number,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}
