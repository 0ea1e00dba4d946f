package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Repository provides database operations for customers, products and
// orders. All cross-entity writes happen here so their atomicity units
// stay in one place.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new CRM repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for all CRM tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Customer{}, &Product{}, &Order{})
}

// isUniqueViolation reports whether err is a unique-constraint failure
// from the backing store. The email check in CreateCustomer is
// check-then-insert, so a concurrent writer can still trip the unique
// index; that loser must surface as ErrDuplicateEmail.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateCustomer persists a new customer. A unique-index violation on
// email is mapped to ErrDuplicateEmail.
func (r *Repository) CreateCustomer(ctx context.Context, customer *Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// CreateCustomersBatch inserts customers as a single atomic batch:
// either every row is committed or none is.
func (r *Repository) CreateCustomersBatch(ctx context.Context, customers []*Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&customers).Error
	})
}

// EmailExists reports whether a customer with the given email exists.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Customer{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// FindCustomerByID retrieves a customer by ID. Absence is a valid
// "no result" state, so it returns (nil, nil) rather than an error.
func (r *Repository) FindCustomerByID(ctx context.Context, id string) (*Customer, error) {
	var customer Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// ListCustomers retrieves customers matching the filter.
func (r *Repository) ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error) {
	var customers []Customer
	if err := filter.Apply(r.db.WithContext(ctx).Model(&Customer{})).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// DeleteCustomer removes a customer and cascades to its orders: the
// orders, their product associations and the customer row go in one
// transaction, so no orphan order can survive.
func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.First(&Customer{}, "id = ?", id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("failed to find customer: %w", result.Error)
		}

		if err := tx.Exec(
			"DELETE FROM order_products WHERE order_id IN (SELECT id FROM orders WHERE customer_id = ?)", id,
		).Error; err != nil {
			return fmt.Errorf("failed to delete order associations: %w", err)
		}
		if err := tx.Where("customer_id = ?", id).Delete(&Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
		if err := tx.Delete(&Customer{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return nil
	})
}

// CreateProduct persists a new product.
func (r *Repository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindProductByID retrieves a product by ID, returning (nil, nil) when
// it does not exist.
func (r *Repository) FindProductByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindProductsByIDs resolves a set of product IDs. Missing IDs are
// simply absent from the result; the caller compares counts.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// ListProducts retrieves products matching the filter.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var products []Product
	if err := filter.Apply(r.db.WithContext(ctx).Model(&Product{})).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateProductStock sets a product's stock level. Each call is an
// independent single-row write; restocking is deliberately not atomic
// across products.
func (r *Repository) UpdateProductStock(ctx context.Context, id string, stock int) error {
	result := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return fmt.Errorf("failed to update stock: %w", result.Error)
	}
	return nil
}

// LowStockProducts returns a snapshot of products below the threshold.
func (r *Repository) LowStockProducts(ctx context.Context, threshold int) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).Where("stock < ?", threshold).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to scan low stock products: %w", err)
	}
	return products, nil
}

// CreateOrder persists an order and its product associations as one
// atomic unit. Products must already be attached to order.Products;
// Omit keeps GORM from touching the product rows themselves.
func (r *Repository) CreateOrder(ctx context.Context, order *Order) error {
	if err := r.db.WithContext(ctx).Omit("Products.*").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindOrderByID retrieves an order with its customer and products,
// returning (nil, nil) when it does not exist.
func (r *Repository) FindOrderByID(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Products").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// ListOrders retrieves orders matching the filter, with customer and
// products preloaded.
func (r *Repository) ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error) {
	var orders []Order
	query := filter.Apply(r.db.WithContext(ctx).Model(&Order{})).
		Preload("Customer").Preload("Products")
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// OrdersSince returns orders placed on or after the given time, with
// their customers preloaded. Used by the order-reminder job.
func (r *Repository) OrdersSince(ctx context.Context, since time.Time) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).Preload("Customer").
		Where("order_date >= ?", since).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// CountCustomers returns the total number of customers.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Customer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// CountOrders returns the total number of orders.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// TotalRevenue returns the sum of all order totals.
func (r *Repository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&Order{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}
