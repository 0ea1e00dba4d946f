package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/Nissau96/alx-backend-graphql-crm/domain/crm"
	"github.com/Nissau96/alx-backend-graphql-crm/modules/crm"
	"github.com/gofiber/fiber/v2"
)

// stubPort answers every CRM call with canned data so the routing and
// status mapping can be tested without the service layer.
type stubPort struct {
	customer    *crm.CustomerView
	product     *crm.ProductView
	order       *crm.OrderView
	createErr   error
	lastListReq *crm.ListProductsRequest
}

func (s *stubPort) Hello(context.Context) (*crm.HelloResponse, error) {
	return &crm.HelloResponse{Message: "Hello, CRM!"}, nil
}

func (s *stubPort) CreateCustomer(_ context.Context, req *crm.CreateCustomerRequest) (*crm.CreateCustomerResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &crm.CreateCustomerResponse{
		Customer: crm.CustomerView{ID: "c-1", Name: req.Name, Email: req.Email},
		Message:  "Customer created successfully!",
	}, nil
}

func (s *stubPort) BulkCreateCustomers(_ context.Context, req *crm.BulkCreateCustomersRequest) (*crm.BulkCreateCustomersResponse, error) {
	resp := &crm.BulkCreateCustomersResponse{Errors: []domain.RowError{}}
	for _, c := range req.Customers {
		resp.Customers = append(resp.Customers, crm.CustomerView{ID: c.Email, Name: c.Name, Email: c.Email})
	}
	return resp, nil
}

func (s *stubPort) CreateProduct(_ context.Context, req *crm.CreateProductRequest) (*crm.CreateProductResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &crm.CreateProductResponse{Product: crm.ProductView{ID: "p-1", Name: req.Name, Price: req.Price}}, nil
}

func (s *stubPort) CreateOrder(context.Context, *crm.CreateOrderRequest) (*crm.CreateOrderResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &crm.CreateOrderResponse{Order: *s.order}, nil
}

func (s *stubPort) GetCustomer(context.Context, string) (*crm.GetCustomerResponse, error) {
	return &crm.GetCustomerResponse{Customer: s.customer, Found: s.customer != nil}, nil
}

func (s *stubPort) GetProduct(context.Context, string) (*crm.GetProductResponse, error) {
	return &crm.GetProductResponse{Product: s.product, Found: s.product != nil}, nil
}

func (s *stubPort) GetOrder(context.Context, string) (*crm.GetOrderResponse, error) {
	return &crm.GetOrderResponse{Order: s.order, Found: s.order != nil}, nil
}

func (s *stubPort) ListCustomers(context.Context, *crm.ListCustomersRequest) (*crm.ListCustomersResponse, error) {
	return &crm.ListCustomersResponse{Customers: []crm.CustomerView{}}, nil
}

func (s *stubPort) ListProducts(_ context.Context, req *crm.ListProductsRequest) (*crm.ListProductsResponse, error) {
	s.lastListReq = req
	return &crm.ListProductsResponse{Products: []crm.ProductView{}}, nil
}

func (s *stubPort) ListOrders(context.Context, *crm.ListOrdersRequest) (*crm.ListOrdersResponse, error) {
	return &crm.ListOrdersResponse{Orders: []crm.OrderView{}}, nil
}

func (s *stubPort) DeleteCustomer(context.Context, string) (*crm.DeleteCustomerResponse, error) {
	if s.customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return &crm.DeleteCustomerResponse{Deleted: true}, nil
}

func (s *stubPort) RestockLowStock(context.Context) (*crm.RestockLowStockResponse, error) {
	return &crm.RestockLowStockResponse{Success: true, Message: "Successfully restocked 0 low-stock products"}, nil
}

func (s *stubPort) Report(context.Context) (*crm.ReportResponse, error) {
	return &crm.ReportResponse{TotalCustomers: 3, TotalOrders: 5, TotalRevenue: 99.50}, nil
}

func newTestAPI(t *testing.T, stub *stubPort) *APIModule {
	t.Helper()

	m := &APIModule{crm: stub}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	m.setupRoutes()
	return m
}

func doJSON(t *testing.T, m *APIModule, method, path string, body any) *http.Response {
	t.Helper()

	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	resp, err := m.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return out
}

func TestHelloEndpoint(t *testing.T) {
	m := newTestAPI(t, &stubPort{})

	resp := doJSON(t, m, http.MethodGet, "/api/v1/hello", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[crm.HelloResponse](t, resp)
	if body.Message != "Hello, CRM!" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestCreateCustomerEndpoint(t *testing.T) {
	m := newTestAPI(t, &stubPort{})

	resp := doJSON(t, m, http.MethodPost, "/api/v1/customers", crm.CreateCustomerRequest{
		Name: "Alice", Email: "alice@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decode[crm.CreateCustomerResponse](t, resp)
	if body.Customer.Email != "alice@example.com" {
		t.Errorf("unexpected customer: %+v", body.Customer)
	}
}

func TestCreateCustomerValidationError(t *testing.T) {
	m := newTestAPI(t, &stubPort{createErr: domain.ErrDuplicateEmail})

	resp := doJSON(t, m, http.MethodPost, "/api/v1/customers", crm.CreateCustomerRequest{
		Name: "Alice", Email: "alice@example.com",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[ErrorResponse](t, resp)
	if body.Message != domain.ErrDuplicateEmail.Error() {
		t.Errorf("expected service message surfaced, got %q", body.Message)
	}
}

func TestBulkCreateRequiresRows(t *testing.T) {
	m := newTestAPI(t, &stubPort{})

	resp := doJSON(t, m, http.MethodPost, "/api/v1/customers/bulk", crm.BulkCreateCustomersRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", resp.StatusCode)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	m := newTestAPI(t, &stubPort{})

	resp := doJSON(t, m, http.MethodGet, "/api/v1/customers/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetCustomerFound(t *testing.T) {
	m := newTestAPI(t, &stubPort{customer: &crm.CustomerView{ID: "c-1", Name: "Alice", Email: "alice@example.com"}})

	resp := doJSON(t, m, http.MethodGet, "/api/v1/customers/c-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[crm.CustomerView](t, resp)
	if body.ID != "c-1" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		m := newTestAPI(t, &stubPort{customer: &crm.CustomerView{ID: "c-1"}})
		resp := doJSON(t, m, http.MethodDelete, "/api/v1/customers/c-1", nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("expected 204, got %d", resp.StatusCode)
		}
	})

	t.Run("missing", func(t *testing.T) {
		m := newTestAPI(t, &stubPort{})
		resp := doJSON(t, m, http.MethodDelete, "/api/v1/customers/missing", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestListProductsQueryParsing(t *testing.T) {
	stub := &stubPort{}
	m := newTestAPI(t, stub)

	resp := doJSON(t, m, http.MethodGet, "/api/v1/products?price_min=5.5&stock_max=20&low_stock=true&order_by=-price", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	req := stub.lastListReq
	if req == nil {
		t.Fatal("expected the list request to reach the port")
	}
	if req.PriceMin == nil || *req.PriceMin != 5.5 {
		t.Errorf("price_min not parsed: %+v", req.PriceMin)
	}
	if req.StockMax == nil || *req.StockMax != 20 {
		t.Errorf("stock_max not parsed: %+v", req.StockMax)
	}
	if !req.LowStock {
		t.Error("low_stock not parsed")
	}
	if req.OrderBy != "-price" {
		t.Errorf("order_by not parsed: %q", req.OrderBy)
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	order := &crm.OrderView{ID: "o-1", TotalAmount: 25.50}
	m := newTestAPI(t, &stubPort{order: order})

	resp := doJSON(t, m, http.MethodPost, "/api/v1/orders", crm.CreateOrderRequest{
		CustomerID: "c-1", ProductIDs: []string{"p-1", "p-2"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decode[crm.CreateOrderResponse](t, resp)
	if body.Order.TotalAmount != 25.50 {
		t.Errorf("unexpected order: %+v", body.Order)
	}
}

func TestCreateOrderInvalidProducts(t *testing.T) {
	m := newTestAPI(t, &stubPort{createErr: &domain.InvalidProductIDsError{IDs: []string{"ghost"}}})

	resp := doJSON(t, m, http.MethodPost, "/api/v1/orders", crm.CreateOrderRequest{
		CustomerID: "c-1", ProductIDs: []string{"ghost"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[ErrorResponse](t, resp)
	if body.Message != "invalid product IDs found: ghost" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestReportEndpoint(t *testing.T) {
	m := newTestAPI(t, &stubPort{})

	resp := doJSON(t, m, http.MethodGet, "/api/v1/report", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[crm.ReportResponse](t, resp)
	if body.TotalCustomers != 3 || body.TotalOrders != 5 || body.TotalRevenue != 99.50 {
		t.Errorf("unexpected report: %+v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	m := newTestAPI(t, &stubPort{})

	resp := doJSON(t, m, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decode[HealthResponse](t, resp)
	if body.Status != "healthy" {
		t.Errorf("unexpected status: %q", body.Status)
	}
}
