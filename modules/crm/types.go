package crm

import (
	"context"
	"time"

	domain "github.com/Nissau96/alx-backend-graphql-crm/domain/crm"
)

// CustomerInput carries the fields for a customer to be created.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CustomerView represents a customer in responses.
type CustomerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductView represents a product in responses.
type ProductView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderView represents an order in responses.
type OrderView struct {
	ID          string        `json:"id"`
	Customer    CustomerView  `json:"customer"`
	Products    []ProductView `json:"products"`
	OrderDate   time.Time     `json:"order_date"`
	TotalAmount float64       `json:"total_amount"`
	CreatedAt   time.Time     `json:"created_at"`
}

// HelloRequest is the request for the hello liveness probe.
type HelloRequest struct{}

// HelloResponse is the response for the hello liveness probe.
type HelloResponse struct {
	Message string `json:"message"`
}

// CreateCustomerRequest is the request for creating a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CreateCustomerResponse is the response after creating a customer.
type CreateCustomerResponse struct {
	Customer CustomerView `json:"customer"`
	Message  string       `json:"message"`
}

// BulkCreateCustomersRequest is the request for the bulk customer mutation.
type BulkCreateCustomersRequest struct {
	Customers []CustomerInput `json:"customers"`
}

// BulkCreateCustomersResponse carries both the created customers and
// the per-row errors of a bulk ingestion (partial-failure semantics).
type BulkCreateCustomersResponse struct {
	Customers []CustomerView    `json:"customers"`
	Errors    []domain.RowError `json:"errors"`
	// BatchError reports a store-level failure that voided the whole
	// surviving batch (all-or-nothing insert).
	BatchError string `json:"batch_error,omitempty"`
}

// CreateProductRequest is the request for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// CreateProductResponse is the response after creating a product.
type CreateProductResponse struct {
	Product ProductView `json:"product"`
}

// CreateOrderRequest is the request for creating an order. OrderDate
// defaults to the creation time when omitted.
type CreateOrderRequest struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

// CreateOrderResponse is the response after creating an order.
type CreateOrderResponse struct {
	Order OrderView `json:"order"`
}

// GetCustomerRequest is the request for a single customer lookup.
type GetCustomerRequest struct {
	ID string `json:"id"`
}

// GetCustomerResponse is the response for a single customer lookup.
// Absence is a valid result, not an error.
type GetCustomerResponse struct {
	Customer *CustomerView `json:"customer,omitempty"`
	Found    bool          `json:"found"`
}

// GetProductRequest is the request for a single product lookup.
type GetProductRequest struct {
	ID string `json:"id"`
}

// GetProductResponse is the response for a single product lookup.
type GetProductResponse struct {
	Product *ProductView `json:"product,omitempty"`
	Found   bool         `json:"found"`
}

// GetOrderRequest is the request for a single order lookup.
type GetOrderRequest struct {
	ID string `json:"id"`
}

// GetOrderResponse is the response for a single order lookup.
type GetOrderResponse struct {
	Order *OrderView `json:"order,omitempty"`
	Found bool       `json:"found"`
}

// ListCustomersRequest filters and sorts a customer listing.
type ListCustomersRequest struct {
	NameContains  string     `json:"name_contains,omitempty"`
	EmailContains string     `json:"email_contains,omitempty"`
	PhonePrefix   string     `json:"phone_prefix,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
	OrderBy       string     `json:"order_by,omitempty"`
}

// ListCustomersResponse is the response for a customer listing.
type ListCustomersResponse struct {
	Customers []CustomerView `json:"customers"`
	Total     int            `json:"total"`
}

// ListProductsRequest filters and sorts a product listing.
type ListProductsRequest struct {
	NameContains string   `json:"name_contains,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	StockMin     *int     `json:"stock_min,omitempty"`
	StockMax     *int     `json:"stock_max,omitempty"`
	LowStock     bool     `json:"low_stock,omitempty"`
	OrderBy      string   `json:"order_by,omitempty"`
}

// ListProductsResponse is the response for a product listing.
type ListProductsResponse struct {
	Products []ProductView `json:"products"`
	Total    int           `json:"total"`
}

// ListOrdersRequest filters and sorts an order listing.
type ListOrdersRequest struct {
	CustomerName    string     `json:"customer_name,omitempty"`
	ProductName     string     `json:"product_name,omitempty"`
	ProductID       string     `json:"product_id,omitempty"`
	TotalMin        *float64   `json:"total_min,omitempty"`
	TotalMax        *float64   `json:"total_max,omitempty"`
	OrderDateAfter  *time.Time `json:"order_date_after,omitempty"`
	OrderDateBefore *time.Time `json:"order_date_before,omitempty"`
	OrderBy         string     `json:"order_by,omitempty"`
}

// ListOrdersResponse is the response for an order listing.
type ListOrdersResponse struct {
	Orders []OrderView `json:"orders"`
	Total  int         `json:"total"`
}

// DeleteCustomerRequest is the request for deleting a customer.
// Deletion cascades to the customer's orders.
type DeleteCustomerRequest struct {
	ID string `json:"id"`
}

// DeleteCustomerResponse is the response after deleting a customer.
type DeleteCustomerResponse struct {
	Deleted bool `json:"deleted"`
}

// RestockLowStockRequest is the request for the restock operation.
type RestockLowStockRequest struct{}

// RestockLowStockResponse is the response after a restock pass.
type RestockLowStockResponse struct {
	Success         bool          `json:"success"`
	Message         string        `json:"message"`
	UpdatedCount    int           `json:"updated_count"`
	UpdatedProducts []ProductView `json:"updated_products"`
}

// ReportRequest is the request for the CRM summary report.
type ReportRequest struct{}

// ReportResponse is the CRM summary report.
type ReportResponse struct {
	TotalCustomers int64     `json:"total_customers"`
	TotalOrders    int64     `json:"total_orders"`
	TotalRevenue   float64   `json:"total_revenue"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// CRMPort defines the interface other modules use to reach the CRM
// services. The HTTP API and the scheduled jobs are both driving
// adapters behind this port.
type CRMPort interface {
	Hello(ctx context.Context) (*HelloResponse, error)
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResponse, error)
	BulkCreateCustomers(ctx context.Context, req *BulkCreateCustomersRequest) (*BulkCreateCustomersResponse, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error)
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)
	GetCustomer(ctx context.Context, id string) (*GetCustomerResponse, error)
	GetProduct(ctx context.Context, id string) (*GetProductResponse, error)
	GetOrder(ctx context.Context, id string) (*GetOrderResponse, error)
	ListCustomers(ctx context.Context, req *ListCustomersRequest) (*ListCustomersResponse, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
	ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error)
	DeleteCustomer(ctx context.Context, id string) (*DeleteCustomerResponse, error)
	RestockLowStock(ctx context.Context) (*RestockLowStockResponse, error)
	Report(ctx context.Context) (*ReportResponse, error)
}
