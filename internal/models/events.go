package models

import "time"

// Event types
const (
	EventTypeStockDecreased = "STOCK_DECREASED"
	EventTypeLowStock       = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// StockDecreasedEvent published after a successful stock decrement
type StockDecreasedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Remaining int   `json:"remaining"`
}

// LowStockEvent published when remaining stock falls to or below the
// product's low-stock threshold
type LowStockEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	Remaining int   `json:"remaining"`
	Threshold int   `json:"threshold"`
}
