package crm

import (
	"context"
	"fmt"
	"log"
	"time"

	domain "github.com/Nissau96/alx-backend-graphql-crm/domain/crm"
	"github.com/Nissau96/alx-backend-graphql-crm/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

const reportCacheKey = "report"

// hello handles the liveness probe used by the heartbeat job.
func (m *CRMModule) hello(_ context.Context, _ HelloRequest, _ *mono.Msg) (HelloResponse, error) {
	return HelloResponse{Message: "Hello, CRM!"}, nil
}

// createCustomer handles the create-customer service request. The
// email pre-check is check-then-insert; the unique index backstops the
// race and the repository maps that to ErrDuplicateEmail as well.
func (m *CRMModule) createCustomer(ctx context.Context, req CreateCustomerRequest, _ *mono.Msg) (CreateCustomerResponse, error) {
	if req.Name == "" {
		return CreateCustomerResponse{}, fmt.Errorf("name is required")
	}
	if req.Email == "" {
		return CreateCustomerResponse{}, fmt.Errorf("email is required")
	}
	if req.Phone != "" {
		if err := domain.ValidatePhone(req.Phone); err != nil {
			return CreateCustomerResponse{}, err
		}
	}

	exists, err := m.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return CreateCustomerResponse{}, err
	}
	if exists {
		return CreateCustomerResponse{}, domain.ErrDuplicateEmail
	}

	customer := &domain.Customer{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := m.repo.CreateCustomer(ctx, customer); err != nil {
		return CreateCustomerResponse{}, err
	}

	m.publishCustomerCreated(customer)

	return CreateCustomerResponse{
		Customer: toCustomerView(customer),
		Message:  "Customer created successfully!",
	}, nil
}

// bulkCreateCustomers handles best-effort batch customer creation.
// Rows are pre-validated independently against existing data only
// (not against sibling rows in the same batch); survivors are inserted
// as one atomic batch, so a store-level failure there voids the whole
// batch and is reported as a single aggregate error.
func (m *CRMModule) bulkCreateCustomers(ctx context.Context, req BulkCreateCustomersRequest, _ *mono.Msg) (BulkCreateCustomersResponse, error) {
	resp := BulkCreateCustomersResponse{
		Customers: []CustomerView{},
		Errors:    []domain.RowError{},
	}

	var toCreate []*domain.Customer
	for i, input := range req.Customers {
		row := i + 1
		exists, err := m.repo.EmailExists(ctx, input.Email)
		if err != nil {
			return BulkCreateCustomersResponse{}, err
		}
		if exists {
			resp.Errors = append(resp.Errors, domain.RowError{
				Row:    row,
				Email:  input.Email,
				Reason: fmt.Sprintf("customer with email '%s' already exists", input.Email),
			})
			continue
		}
		if input.Phone != "" {
			if err := domain.ValidatePhone(input.Phone); err != nil {
				resp.Errors = append(resp.Errors, domain.RowError{
					Row:    row,
					Email:  input.Email,
					Reason: err.Error(),
				})
				continue
			}
		}
		toCreate = append(toCreate, &domain.Customer{
			ID:    uuid.New().String(),
			Name:  input.Name,
			Email: input.Email,
			Phone: input.Phone,
		})
	}

	if len(toCreate) > 0 {
		if err := m.repo.CreateCustomersBatch(ctx, toCreate); err != nil {
			batchErr := &domain.BatchInsertError{Err: err}
			resp.BatchError = batchErr.Error()
			return resp, nil
		}
		for _, customer := range toCreate {
			resp.Customers = append(resp.Customers, toCustomerView(customer))
			m.publishCustomerCreated(customer)
		}
	}

	return resp, nil
}

// createProduct handles the create-product service request.
func (m *CRMModule) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (CreateProductResponse, error) {
	if req.Name == "" {
		return CreateProductResponse{}, fmt.Errorf("name is required")
	}
	if req.Price <= 0 {
		return CreateProductResponse{}, domain.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return CreateProductResponse{}, domain.ErrInvalidStock
	}

	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := m.repo.CreateProduct(ctx, product); err != nil {
		return CreateProductResponse{}, err
	}

	return CreateProductResponse{Product: toProductView(product)}, nil
}

// createOrder handles the create-order service request. Each step is a
// hard precondition: the customer must resolve, the product list must
// be non-empty and every product ID must resolve. The order row and
// its product associations are persisted as one atomic unit. Stock is
// deliberately not decremented by placing an order.
func (m *CRMModule) createOrder(ctx context.Context, req CreateOrderRequest, _ *mono.Msg) (CreateOrderResponse, error) {
	customer, err := m.repo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return CreateOrderResponse{}, err
	}
	if customer == nil {
		return CreateOrderResponse{}, domain.ErrCustomerNotFound
	}

	if len(req.ProductIDs) == 0 {
		return CreateOrderResponse{}, domain.ErrEmptyProductList
	}

	products, err := m.repo.FindProductsByIDs(ctx, req.ProductIDs)
	if err != nil {
		return CreateOrderResponse{}, err
	}
	if missing := missingIDs(req.ProductIDs, products); len(missing) > 0 {
		return CreateOrderResponse{}, &domain.InvalidProductIDsError{IDs: missing}
	}

	var total float64
	for _, p := range products {
		total += p.Price
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order := &domain.Order{
		ID:          uuid.New().String(),
		CustomerID:  customer.ID,
		Customer:    *customer,
		Products:    products,
		OrderDate:   orderDate,
		TotalAmount: total,
	}
	if err := m.repo.CreateOrder(ctx, order); err != nil {
		return CreateOrderResponse{}, err
	}

	m.publishOrderCreated(order)

	return CreateOrderResponse{Order: toOrderView(order)}, nil
}

// getCustomer handles a single customer lookup. Absence is returned
// as Found=false, never as an error.
func (m *CRMModule) getCustomer(ctx context.Context, req GetCustomerRequest, _ *mono.Msg) (GetCustomerResponse, error) {
	customer, err := m.repo.FindCustomerByID(ctx, req.ID)
	if err != nil {
		return GetCustomerResponse{}, err
	}
	if customer == nil {
		return GetCustomerResponse{Found: false}, nil
	}
	view := toCustomerView(customer)
	return GetCustomerResponse{Customer: &view, Found: true}, nil
}

// getProduct handles a single product lookup.
func (m *CRMModule) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (GetProductResponse, error) {
	product, err := m.repo.FindProductByID(ctx, req.ID)
	if err != nil {
		return GetProductResponse{}, err
	}
	if product == nil {
		return GetProductResponse{Found: false}, nil
	}
	view := toProductView(product)
	return GetProductResponse{Product: &view, Found: true}, nil
}

// getOrder handles a single order lookup.
func (m *CRMModule) getOrder(ctx context.Context, req GetOrderRequest, _ *mono.Msg) (GetOrderResponse, error) {
	order, err := m.repo.FindOrderByID(ctx, req.ID)
	if err != nil {
		return GetOrderResponse{}, err
	}
	if order == nil {
		return GetOrderResponse{Found: false}, nil
	}
	view := toOrderView(order)
	return GetOrderResponse{Order: &view, Found: true}, nil
}

// listCustomers handles a filtered customer listing.
func (m *CRMModule) listCustomers(ctx context.Context, req ListCustomersRequest, _ *mono.Msg) (ListCustomersResponse, error) {
	customers, err := m.repo.ListCustomers(ctx, domain.CustomerFilter{
		NameContains:  req.NameContains,
		EmailContains: req.EmailContains,
		PhonePrefix:   req.PhonePrefix,
		CreatedAfter:  req.CreatedAfter,
		CreatedBefore: req.CreatedBefore,
		OrderBy:       req.OrderBy,
	})
	if err != nil {
		return ListCustomersResponse{}, err
	}

	resp := ListCustomersResponse{Customers: make([]CustomerView, 0, len(customers)), Total: len(customers)}
	for i := range customers {
		resp.Customers = append(resp.Customers, toCustomerView(&customers[i]))
	}
	return resp, nil
}

// listProducts handles a filtered product listing.
func (m *CRMModule) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	products, err := m.repo.ListProducts(ctx, domain.ProductFilter{
		NameContains: req.NameContains,
		PriceMin:     req.PriceMin,
		PriceMax:     req.PriceMax,
		StockMin:     req.StockMin,
		StockMax:     req.StockMax,
		LowStock:     req.LowStock,
		OrderBy:      req.OrderBy,
	})
	if err != nil {
		return ListProductsResponse{}, err
	}

	resp := ListProductsResponse{Products: make([]ProductView, 0, len(products)), Total: len(products)}
	for i := range products {
		resp.Products = append(resp.Products, toProductView(&products[i]))
	}
	return resp, nil
}

// listOrders handles a filtered order listing.
func (m *CRMModule) listOrders(ctx context.Context, req ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	orders, err := m.repo.ListOrders(ctx, domain.OrderFilter{
		CustomerName:    req.CustomerName,
		ProductName:     req.ProductName,
		ProductID:       req.ProductID,
		TotalMin:        req.TotalMin,
		TotalMax:        req.TotalMax,
		OrderDateAfter:  req.OrderDateAfter,
		OrderDateBefore: req.OrderDateBefore,
		OrderBy:         req.OrderBy,
	})
	if err != nil {
		return ListOrdersResponse{}, err
	}

	resp := ListOrdersResponse{Orders: make([]OrderView, 0, len(orders)), Total: len(orders)}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderView(&orders[i]))
	}
	return resp, nil
}

// deleteCustomer handles the delete-customer service request. Orders
// owned by the customer are removed in the same transaction.
func (m *CRMModule) deleteCustomer(ctx context.Context, req DeleteCustomerRequest, _ *mono.Msg) (DeleteCustomerResponse, error) {
	if err := m.repo.DeleteCustomer(ctx, req.ID); err != nil {
		return DeleteCustomerResponse{Deleted: false}, err
	}
	return DeleteCustomerResponse{Deleted: true}, nil
}

// restockLowStock scans a snapshot of low-stock products and tops each
// one up independently. A failure partway leaves earlier updates
// committed; the next scheduled pass picks up the rest.
func (m *CRMModule) restockLowStock(ctx context.Context, _ RestockLowStockRequest, _ *mono.Msg) (RestockLowStockResponse, error) {
	lowStock, err := m.repo.LowStockProducts(ctx, domain.LowStockThreshold)
	if err != nil {
		return RestockLowStockResponse{}, err
	}

	updated := make([]ProductView, 0, len(lowStock))
	for i := range lowStock {
		lowStock[i].Stock += domain.RestockQuantity
		if err := m.repo.UpdateProductStock(ctx, lowStock[i].ID, lowStock[i].Stock); err != nil {
			return RestockLowStockResponse{}, fmt.Errorf("restock stopped after %d products: %w", len(updated), err)
		}
		updated = append(updated, toProductView(&lowStock[i]))
	}

	m.publishLowStockRestocked(updated)

	return RestockLowStockResponse{
		Success:         true,
		Message:         fmt.Sprintf("Successfully restocked %d low-stock products", len(updated)),
		UpdatedCount:    len(updated),
		UpdatedProducts: updated,
	}, nil
}

// report builds the CRM summary report. When a cache is attached the
// result is served cache-aside with concurrent rebuilds collapsed.
func (m *CRMModule) report(ctx context.Context, _ ReportRequest, _ *mono.Msg) (ReportResponse, error) {
	compute := func() (any, error) {
		return m.buildReport(ctx)
	}

	if m.cache != nil {
		var resp ReportResponse
		if err := m.cache.GetOrCompute(ctx, reportCacheKey, &resp, compute); err == nil {
			return resp, nil
		}
		// Cache trouble must not take the report down; fall through.
	}

	return m.buildReport(ctx)
}

func (m *CRMModule) buildReport(ctx context.Context) (ReportResponse, error) {
	customers, err := m.repo.CountCustomers(ctx)
	if err != nil {
		return ReportResponse{}, err
	}
	orders, err := m.repo.CountOrders(ctx)
	if err != nil {
		return ReportResponse{}, err
	}
	revenue, err := m.repo.TotalRevenue(ctx)
	if err != nil {
		return ReportResponse{}, err
	}

	return ReportResponse{
		TotalCustomers: customers,
		TotalOrders:    orders,
		TotalRevenue:   revenue,
		GeneratedAt:    time.Now(),
	}, nil
}

// missingIDs returns the requested IDs that did not resolve,
// preserving their input order.
func missingIDs(requested []string, found []domain.Product) []string {
	foundSet := make(map[string]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := foundSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func (m *CRMModule) publishCustomerCreated(customer *domain.Customer) {
	if m.eventBus == nil {
		return
	}
	event := events.CustomerCreatedEvent{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
		CreatedAt:  customer.CreatedAt,
	}
	if err := events.CustomerCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[crm] Warning: failed to publish CustomerCreated event for %s: %v", customer.ID, err)
	}
}

func (m *CRMModule) publishOrderCreated(order *domain.Order) {
	if m.eventBus == nil {
		return
	}
	productIDs := make([]string, 0, len(order.Products))
	for _, p := range order.Products {
		productIDs = append(productIDs, p.ID)
	}
	event := events.OrderCreatedEvent{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		CustomerEmail: order.Customer.Email,
		ProductIDs:    productIDs,
		TotalAmount:   order.TotalAmount,
		OrderDate:     order.OrderDate,
	}
	if err := events.OrderCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[crm] Warning: failed to publish OrderCreated event for %s: %v", order.ID, err)
	}
}

func (m *CRMModule) publishLowStockRestocked(updated []ProductView) {
	if m.eventBus == nil || len(updated) == 0 {
		return
	}
	productIDs := make([]string, 0, len(updated))
	for _, p := range updated {
		productIDs = append(productIDs, p.ID)
	}
	event := events.LowStockRestockedEvent{
		UpdatedCount: len(updated),
		ProductIDs:   productIDs,
		RestockedAt:  time.Now(),
	}
	if err := events.LowStockRestockedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[crm] Warning: failed to publish LowStockRestocked event: %v", err)
	}
}

// toCustomerView converts a Customer entity to its response view.
func toCustomerView(customer *domain.Customer) CustomerView {
	return CustomerView{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	}
}

// toProductView converts a Product entity to its response view.
func toProductView(product *domain.Product) ProductView {
	return ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
	}
}

// toOrderView converts an Order entity to its response view.
func toOrderView(order *domain.Order) OrderView {
	products := make([]ProductView, 0, len(order.Products))
	for i := range order.Products {
		products = append(products, toProductView(&order.Products[i]))
	}
	return OrderView{
		ID:          order.ID,
		Customer:    toCustomerView(&order.Customer),
		Products:    products,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
}
