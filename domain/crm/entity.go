package crm

import (
	"time"
)

// LowStockThreshold is the stock level below which a product is
// considered low stock.
const LowStockThreshold = 10

// RestockQuantity is the amount added to a product's stock on restock.
const RestockQuantity = 10

// Customer represents a CRM customer. Email is globally unique.
type Customer struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Customer model.
func (Customer) TableName() string {
	return "customers"
}

// Product represents a product in the catalog. Stock is only ever
// increased by restocking; placing an order does not decrement it.
type Product struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	Price       float64   `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// Order links a customer to one or more products. TotalAmount is the
// sum of the linked products' prices at the moment the order was
// created and is never recomputed.
type Order struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	CustomerID  string    `gorm:"size:36;not null;index" json:"customer_id"`
	Customer    Customer  `json:"customer"`
	Products    []Product `gorm:"many2many:order_products" json:"products"`
	OrderDate   time.Time `gorm:"not null" json:"order_date"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for the Order model.
func (Order) TableName() string {
	return "orders"
}
