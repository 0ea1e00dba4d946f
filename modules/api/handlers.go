package api

import (
	"strconv"
	"time"

	"github.com/Nissau96/alx-backend-graphql-crm/modules/crm"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group("/api/v1")
	api.Get("/hello", m.hello)
	api.Get("/report", m.report)

	customers := api.Group("/customers")
	customers.Post("/", m.createCustomer)
	customers.Post("/bulk", m.bulkCreateCustomers)
	customers.Get("/", m.listCustomers)
	customers.Get("/:id", m.getCustomer)
	customers.Delete("/:id", m.deleteCustomer)

	products := api.Group("/products")
	products.Post("/", m.createProduct)
	products.Post("/restock", m.restockLowStock)
	products.Get("/", m.listProducts)
	products.Get("/:id", m.getProduct)

	orders := api.Group("/orders")
	orders.Post("/", m.createOrder)
	orders.Get("/", m.listOrders)
	orders.Get("/:id", m.getOrder)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Details: map[string]any{"module": "api", "port": m.port},
	})
}

// hello handles GET /api/v1/hello, the liveness probe.
func (m *APIModule) hello(c *fiber.Ctx) error {
	resp, err := m.crm.Hello(c.Context())
	if err != nil {
		return serviceError(c, "hello_failed", err)
	}
	return c.JSON(resp)
}

// createCustomer handles POST /api/v1/customers.
func (m *APIModule) createCustomer(c *fiber.Ctx) error {
	var req crm.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request body")
	}

	resp, err := m.crm.CreateCustomer(c.Context(), &req)
	if err != nil {
		return serviceError(c, "create_failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// bulkCreateCustomers handles POST /api/v1/customers/bulk. Row errors
// come back in the body alongside the created customers; the request
// itself succeeds (partial-failure semantics).
func (m *APIModule) bulkCreateCustomers(c *fiber.Ctx) error {
	var req crm.BulkCreateCustomersRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request body")
	}
	if len(req.Customers) == 0 {
		return badRequest(c, "validation_error", "At least one customer row is required")
	}

	resp, err := m.crm.BulkCreateCustomers(c.Context(), &req)
	if err != nil {
		return serviceError(c, "bulk_create_failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// listCustomers handles GET /api/v1/customers.
func (m *APIModule) listCustomers(c *fiber.Ctx) error {
	req := crm.ListCustomersRequest{
		NameContains:  c.Query("name"),
		EmailContains: c.Query("email"),
		PhonePrefix:   c.Query("phone_prefix"),
		CreatedAfter:  queryTime(c, "created_after"),
		CreatedBefore: queryTime(c, "created_before"),
		OrderBy:       c.Query("order_by"),
	}

	resp, err := m.crm.ListCustomers(c.Context(), &req)
	if err != nil {
		return serviceError(c, "list_failed", err)
	}
	return c.JSON(resp)
}

// getCustomer handles GET /api/v1/customers/:id.
func (m *APIModule) getCustomer(c *fiber.Ctx) error {
	resp, err := m.crm.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, "get_failed", err)
	}
	if !resp.Found {
		return notFound(c, "Customer not found")
	}
	return c.JSON(resp.Customer)
}

// deleteCustomer handles DELETE /api/v1/customers/:id. Deleting a
// customer cascades to its orders.
func (m *APIModule) deleteCustomer(c *fiber.Ctx) error {
	if _, err := m.crm.DeleteCustomer(c.Context(), c.Params("id")); err != nil {
		return notFound(c, "Customer not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// createProduct handles POST /api/v1/products.
func (m *APIModule) createProduct(c *fiber.Ctx) error {
	var req crm.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request body")
	}

	resp, err := m.crm.CreateProduct(c.Context(), &req)
	if err != nil {
		return serviceError(c, "create_failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// restockLowStock handles POST /api/v1/products/restock.
func (m *APIModule) restockLowStock(c *fiber.Ctx) error {
	resp, err := m.crm.RestockLowStock(c.Context())
	if err != nil {
		return serviceError(c, "restock_failed", err)
	}
	return c.JSON(resp)
}

// listProducts handles GET /api/v1/products.
func (m *APIModule) listProducts(c *fiber.Ctx) error {
	req := crm.ListProductsRequest{
		NameContains: c.Query("name"),
		PriceMin:     queryFloat(c, "price_min"),
		PriceMax:     queryFloat(c, "price_max"),
		StockMin:     queryInt(c, "stock_min"),
		StockMax:     queryInt(c, "stock_max"),
		LowStock:     c.QueryBool("low_stock"),
		OrderBy:      c.Query("order_by"),
	}

	resp, err := m.crm.ListProducts(c.Context(), &req)
	if err != nil {
		return serviceError(c, "list_failed", err)
	}
	return c.JSON(resp)
}

// getProduct handles GET /api/v1/products/:id.
func (m *APIModule) getProduct(c *fiber.Ctx) error {
	resp, err := m.crm.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, "get_failed", err)
	}
	if !resp.Found {
		return notFound(c, "Product not found")
	}
	return c.JSON(resp.Product)
}

// createOrder handles POST /api/v1/orders.
func (m *APIModule) createOrder(c *fiber.Ctx) error {
	var req crm.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request body")
	}

	resp, err := m.crm.CreateOrder(c.Context(), &req)
	if err != nil {
		return serviceError(c, "create_failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// listOrders handles GET /api/v1/orders.
func (m *APIModule) listOrders(c *fiber.Ctx) error {
	req := crm.ListOrdersRequest{
		CustomerName:    c.Query("customer_name"),
		ProductName:     c.Query("product_name"),
		ProductID:       c.Query("product_id"),
		TotalMin:        queryFloat(c, "total_min"),
		TotalMax:        queryFloat(c, "total_max"),
		OrderDateAfter:  queryTime(c, "order_date_after"),
		OrderDateBefore: queryTime(c, "order_date_before"),
		OrderBy:         c.Query("order_by"),
	}

	resp, err := m.crm.ListOrders(c.Context(), &req)
	if err != nil {
		return serviceError(c, "list_failed", err)
	}
	return c.JSON(resp)
}

// getOrder handles GET /api/v1/orders/:id.
func (m *APIModule) getOrder(c *fiber.Ctx) error {
	resp, err := m.crm.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, "get_failed", err)
	}
	if !resp.Found {
		return notFound(c, "Order not found")
	}
	return c.JSON(resp.Order)
}

// report handles GET /api/v1/report.
func (m *APIModule) report(c *fiber.Ctx) error {
	resp, err := m.crm.Report(c.Context())
	if err != nil {
		return serviceError(c, "report_failed", err)
	}
	return c.JSON(resp)
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: code, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "not_found", Message: message})
}

// serviceError maps a CRM service failure to a 400 with the service's
// message. Validation failures dominate this path; transport faults
// surface the same way and the caller retries.
func serviceError(c *fiber.Ctx, code string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: code, Message: err.Error()})
}

// queryFloat parses an optional float query parameter.
func queryFloat(c *fiber.Ctx, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// queryInt parses an optional integer query parameter.
func queryInt(c *fiber.Ctx, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// queryTime parses an optional timestamp query parameter, accepting
// RFC 3339 or a bare date.
func queryTime(c *fiber.Ctx, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
