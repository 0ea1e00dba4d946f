package crm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// crmAdapter wraps the CRM module's ServiceContainer for type-safe
// cross-module calls. It implements the CRMPort interface.
type crmAdapter struct {
	container mono.ServiceContainer
}

// NewCRMAdapter creates an adapter for the CRM services. container is
// the ServiceContainer received via SetDependencyServiceContainer.
func NewCRMAdapter(container mono.ServiceContainer) CRMPort {
	if container == nil {
		panic("crm adapter requires non-nil ServiceContainer")
	}
	return &crmAdapter{container: container}
}

// call is the shared request-reply plumbing for every CRM service.
func call[T1 any, T2 any](a *crmAdapter, ctx context.Context, service string, req T1, resp *T2) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *crmAdapter) Hello(ctx context.Context) (*HelloResponse, error) {
	var resp HelloResponse
	if err := call(a, ctx, "hello", &HelloRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResponse, error) {
	var resp CreateCustomerResponse
	if err := call(a, ctx, "create-customer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) BulkCreateCustomers(ctx context.Context, req *BulkCreateCustomersRequest) (*BulkCreateCustomersResponse, error) {
	var resp BulkCreateCustomersResponse
	if err := call(a, ctx, "bulk-create-customers", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	var resp CreateProductResponse
	if err := call(a, ctx, "create-product", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := call(a, ctx, "create-order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) GetCustomer(ctx context.Context, id string) (*GetCustomerResponse, error) {
	var resp GetCustomerResponse
	if err := call(a, ctx, "get-customer", &GetCustomerRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) GetProduct(ctx context.Context, id string) (*GetProductResponse, error) {
	var resp GetProductResponse
	if err := call(a, ctx, "get-product", &GetProductRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) GetOrder(ctx context.Context, id string) (*GetOrderResponse, error) {
	var resp GetOrderResponse
	if err := call(a, ctx, "get-order", &GetOrderRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) ListCustomers(ctx context.Context, req *ListCustomersRequest) (*ListCustomersResponse, error) {
	var resp ListCustomersResponse
	if err := call(a, ctx, "list-customers", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	var resp ListProductsResponse
	if err := call(a, ctx, "list-products", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	var resp ListOrdersResponse
	if err := call(a, ctx, "list-orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) DeleteCustomer(ctx context.Context, id string) (*DeleteCustomerResponse, error) {
	var resp DeleteCustomerResponse
	if err := call(a, ctx, "delete-customer", &DeleteCustomerRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) RestockLowStock(ctx context.Context) (*RestockLowStockResponse, error) {
	var resp RestockLowStockResponse
	if err := call(a, ctx, "restock-low-stock", &RestockLowStockRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *crmAdapter) Report(ctx context.Context) (*ReportResponse, error) {
	var resp ReportResponse
	if err := call(a, ctx, "report", &ReportRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
