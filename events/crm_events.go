package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// CustomerCreatedEvent is emitted when a new customer is created,
// whether through the single or the bulk mutation.
type CustomerCreatedEvent struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// CustomerCreatedV1 is the typed event definition for customer creation.
// Subject: events.crm.v1.customer-created
var CustomerCreatedV1 = helper.EventDefinition[CustomerCreatedEvent](
	"crm", "CustomerCreated", "v1",
)

// OrderCreatedEvent is emitted when an order is placed.
type OrderCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	ProductIDs    []string  `json:"product_ids"`
	TotalAmount   float64   `json:"total_amount"`
	OrderDate     time.Time `json:"order_date"`
}

// OrderCreatedV1 is the typed event definition for order creation.
// Subject: events.crm.v1.order-created
var OrderCreatedV1 = helper.EventDefinition[OrderCreatedEvent](
	"crm", "OrderCreated", "v1",
)

// LowStockRestockedEvent is emitted after a restock pass over
// low-stock products.
type LowStockRestockedEvent struct {
	UpdatedCount int       `json:"updated_count"`
	ProductIDs   []string  `json:"product_ids"`
	RestockedAt  time.Time `json:"restocked_at"`
}

// LowStockRestockedV1 is the typed event definition for restock passes.
// Subject: events.crm.v1.low-stock-restocked
var LowStockRestockedV1 = helper.EventDefinition[LowStockRestockedEvent](
	"crm", "LowStockRestocked", "v1",
)
