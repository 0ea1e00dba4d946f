package crm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return repo
}

func newCustomer(name, email string) *Customer {
	return &Customer{ID: uuid.New().String(), Name: name, Email: email}
}

func newProduct(name string, price float64, stock int) *Product {
	return &Product{ID: uuid.New().String(), Name: name, Price: price, Stock: stock}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateCustomer(ctx, newCustomer("Alice", "alice@example.com")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	err := repo.CreateCustomer(ctx, newCustomer("Alice Again", "alice@example.com"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	exists, err := repo.EmailExists(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if !exists {
		t.Error("expected email to exist")
	}
}

func TestCreateCustomersBatchAtomic(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := []*Customer{
		newCustomer("Bob", "bob@example.com"),
		newCustomer("Bob Clone", "bob@example.com"),
	}

	if err := repo.CreateCustomersBatch(ctx, batch); err == nil {
		t.Fatal("expected batch with duplicate emails to fail")
	}

	count, err := repo.CountCustomers(ctx)
	if err != nil {
		t.Fatalf("CountCustomers failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no customers after failed batch, got %d", count)
	}
}

func TestCreateCustomersBatchSuccess(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := []*Customer{
		newCustomer("Carol", "carol@example.com"),
		newCustomer("Dave", "dave@example.com"),
		newCustomer("Eve", "eve@example.com"),
	}

	if err := repo.CreateCustomersBatch(ctx, batch); err != nil {
		t.Fatalf("batch insert failed: %v", err)
	}

	count, err := repo.CountCustomers(ctx)
	if err != nil {
		t.Fatalf("CountCustomers failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 customers, got %d", count)
	}
}

func TestFindCustomerByIDAbsent(t *testing.T) {
	repo := newTestRepository(t)

	customer, err := repo.FindCustomerByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer != nil {
		t.Errorf("expected nil customer, got %+v", customer)
	}
}

func TestCreateOrderWithAssociations(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	customer := newCustomer("Frank", "frank@example.com")
	if err := repo.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	laptop := newProduct("Laptop", 999.99, 5)
	mouse := newProduct("Mouse", 19.99, 50)
	for _, p := range []*Product{laptop, mouse} {
		if err := repo.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	order := &Order{
		ID:          uuid.New().String(),
		CustomerID:  customer.ID,
		Products:    []Product{*laptop, *mouse},
		OrderDate:   time.Now(),
		TotalAmount: laptop.Price + mouse.Price,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	loaded, err := repo.FindOrderByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find order failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected order to be found")
	}
	if len(loaded.Products) != 2 {
		t.Errorf("expected 2 linked products, got %d", len(loaded.Products))
	}
	if loaded.Customer.Email != "frank@example.com" {
		t.Errorf("expected preloaded customer, got %+v", loaded.Customer)
	}
	if loaded.TotalAmount != 1019.98 {
		t.Errorf("expected total 1019.98, got %f", loaded.TotalAmount)
	}
}

func TestDeleteCustomerCascades(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	customer := newCustomer("Grace", "grace@example.com")
	if err := repo.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	product := newProduct("Keyboard", 49.99, 20)
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	order := &Order{
		ID:          uuid.New().String(),
		CustomerID:  customer.ID,
		Products:    []Product{*product},
		OrderDate:   time.Now(),
		TotalAmount: product.Price,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := repo.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("delete customer failed: %v", err)
	}

	gone, err := repo.FindCustomerByID(ctx, customer.ID)
	if err != nil || gone != nil {
		t.Errorf("expected customer gone, got %+v err %v", gone, err)
	}
	orphan, err := repo.FindOrderByID(ctx, order.ID)
	if err != nil || orphan != nil {
		t.Errorf("expected order gone, got %+v err %v", orphan, err)
	}

	// The product itself must survive the cascade.
	kept, err := repo.FindProductByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product failed: %v", err)
	}
	if kept == nil {
		t.Error("expected product to survive customer deletion")
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.DeleteCustomer(context.Background(), "no-such-id")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestLowStockProductsAndUpdate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	stocks := []int{3, 12, 5, 10}
	for i, stock := range stocks {
		p := newProduct(fmt.Sprintf("Product %d", i), 9.99, stock)
		if err := repo.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	low, err := repo.LowStockProducts(ctx, LowStockThreshold)
	if err != nil {
		t.Fatalf("low stock scan failed: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", len(low))
	}

	for _, p := range low {
		if err := repo.UpdateProductStock(ctx, p.ID, p.Stock+RestockQuantity); err != nil {
			t.Fatalf("update stock failed: %v", err)
		}
	}

	low, err = repo.LowStockProducts(ctx, LowStockThreshold)
	if err != nil {
		t.Fatalf("low stock rescan failed: %v", err)
	}
	if len(low) != 0 {
		t.Errorf("expected no low-stock products after restock, got %d", len(low))
	}
}

func TestFindProductsByIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a := newProduct("A", 1, 1)
	b := newProduct("B", 2, 2)
	for _, p := range []*Product{a, b} {
		if err := repo.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	found, err := repo.FindProductsByIDs(ctx, []string{a.ID, "missing", b.ID})
	if err != nil {
		t.Fatalf("find by IDs failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 products resolved, got %d", len(found))
	}
}

func TestCountsAndRevenue(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	customer := newCustomer("Heidi", "heidi@example.com")
	if err := repo.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	product := newProduct("Monitor", 150.00, 8)
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	for _, total := range []float64{150.00, 300.00} {
		order := &Order{
			ID:          uuid.New().String(),
			CustomerID:  customer.ID,
			Products:    []Product{*product},
			OrderDate:   time.Now(),
			TotalAmount: total,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	customers, err := repo.CountCustomers(ctx)
	if err != nil || customers != 1 {
		t.Errorf("expected 1 customer, got %d err %v", customers, err)
	}
	orders, err := repo.CountOrders(ctx)
	if err != nil || orders != 2 {
		t.Errorf("expected 2 orders, got %d err %v", orders, err)
	}
	revenue, err := repo.TotalRevenue(ctx)
	if err != nil || revenue != 450.00 {
		t.Errorf("expected revenue 450.00, got %f err %v", revenue, err)
	}
}

func TestTotalRevenueEmpty(t *testing.T) {
	repo := newTestRepository(t)

	revenue, err := repo.TotalRevenue(context.Background())
	if err != nil {
		t.Fatalf("TotalRevenue failed: %v", err)
	}
	if revenue != 0 {
		t.Errorf("expected zero revenue, got %f", revenue)
	}
}

func TestOrdersSince(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	customer := newCustomer("Ivan", "ivan@example.com")
	if err := repo.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	product := newProduct("Cable", 5.00, 100)
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	now := time.Now()
	dates := []time.Time{now.Add(-10 * 24 * time.Hour), now.Add(-2 * 24 * time.Hour), now}
	for _, d := range dates {
		order := &Order{
			ID:          uuid.New().String(),
			CustomerID:  customer.ID,
			Products:    []Product{*product},
			OrderDate:   d,
			TotalAmount: product.Price,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	recent, err := repo.OrdersSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("OrdersSince failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("expected 2 recent orders, got %d", len(recent))
	}
	for _, o := range recent {
		if o.Customer.Email != "ivan@example.com" {
			t.Errorf("expected customer preloaded, got %+v", o.Customer)
		}
	}
}
