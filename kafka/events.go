package kafka

import "time"

// SaleLine is one cart entry inside a completed sale
type SaleLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// SaleCompletedEvent represents a committed sale
type SaleCompletedEvent struct {
	EventID   string     `json:"event_id"`
	EventType string     `json:"event_type"`
	Username  string     `json:"username"`
	Lines     []SaleLine `json:"lines"`
	TotalDKK  string     `json:"total_dkk"`
	TotalEUR  string     `json:"total_eur"`
	Timestamp time.Time  `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
)

// Kafka topics
const (
	TopicSaleCompleted = "sale.completed"
)
