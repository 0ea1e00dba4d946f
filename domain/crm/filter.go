package crm

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Sort keys declared per entity. Unknown keys are ignored so a bad
// order_by never turns into a SQL error.
var (
	customerSortColumns = map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	}
	productSortColumns = map[string]string{
		"name":  "name",
		"price": "price",
		"stock": "stock",
	}
	orderSortColumns = map[string]string{
		"total_amount": "total_amount",
		"order_date":   "order_date",
	}
)

// CustomerFilter narrows and sorts customer listings.
type CustomerFilter struct {
	NameContains  string
	EmailContains string
	PhonePrefix   string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	OrderBy       string
}

// Apply adds the filter's conditions to a customer query.
func (f CustomerFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.NameContains != "" {
		db = db.Where("LOWER(customers.name) LIKE ?", containsPattern(f.NameContains))
	}
	if f.EmailContains != "" {
		db = db.Where("LOWER(customers.email) LIKE ?", containsPattern(f.EmailContains))
	}
	if f.PhonePrefix != "" {
		db = db.Where("customers.phone LIKE ?", f.PhonePrefix+"%")
	}
	if f.CreatedAfter != nil {
		db = db.Where("customers.created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("customers.created_at <= ?", *f.CreatedBefore)
	}
	return applyOrder(db, f.OrderBy, customerSortColumns)
}

// ProductFilter narrows and sorts product listings.
type ProductFilter struct {
	NameContains string
	PriceMin     *float64
	PriceMax     *float64
	StockMin     *int
	StockMax     *int
	LowStock     bool
	OrderBy      string
}

// Apply adds the filter's conditions to a product query.
func (f ProductFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.NameContains != "" {
		db = db.Where("LOWER(products.name) LIKE ?", containsPattern(f.NameContains))
	}
	if f.PriceMin != nil {
		db = db.Where("products.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		db = db.Where("products.price <= ?", *f.PriceMax)
	}
	if f.StockMin != nil {
		db = db.Where("products.stock >= ?", *f.StockMin)
	}
	if f.StockMax != nil {
		db = db.Where("products.stock <= ?", *f.StockMax)
	}
	if f.LowStock {
		db = db.Where("products.stock < ?", LowStockThreshold)
	}
	return applyOrder(db, f.OrderBy, productSortColumns)
}

// OrderFilter narrows and sorts order listings, including relational
// filters on the owning customer and the linked products.
type OrderFilter struct {
	CustomerName    string
	ProductName     string
	ProductID       string
	TotalMin        *float64
	TotalMax        *float64
	OrderDateAfter  *time.Time
	OrderDateBefore *time.Time
	OrderBy         string
}

// Apply adds the filter's conditions to an order query. Product
// filters join through the order_products association table, so the
// result is de-duplicated with DISTINCT.
func (f OrderFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.CustomerName != "" {
		db = db.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(customers.name) LIKE ?", containsPattern(f.CustomerName))
	}
	if f.ProductName != "" || f.ProductID != "" {
		db = db.Joins("JOIN order_products ON order_products.order_id = orders.id").
			Joins("JOIN products ON products.id = order_products.product_id").
			Distinct("orders.*")
		if f.ProductName != "" {
			db = db.Where("LOWER(products.name) LIKE ?", containsPattern(f.ProductName))
		}
		if f.ProductID != "" {
			db = db.Where("products.id = ?", f.ProductID)
		}
	}
	if f.TotalMin != nil {
		db = db.Where("orders.total_amount >= ?", *f.TotalMin)
	}
	if f.TotalMax != nil {
		db = db.Where("orders.total_amount <= ?", *f.TotalMax)
	}
	if f.OrderDateAfter != nil {
		db = db.Where("orders.order_date >= ?", *f.OrderDateAfter)
	}
	if f.OrderDateBefore != nil {
		db = db.Where("orders.order_date <= ?", *f.OrderDateBefore)
	}
	return applyOrder(db, f.OrderBy, orderSortColumns)
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// applyOrder sorts by a declared key. A leading '-' requests
// descending order, matching the order_by convention of the API.
func applyOrder(db *gorm.DB, orderBy string, allowed map[string]string) *gorm.DB {
	if orderBy == "" {
		return db
	}
	key := orderBy
	desc := false
	if strings.HasPrefix(key, "-") {
		key = key[1:]
		desc = true
	}
	column, ok := allowed[key]
	if !ok {
		return db
	}
	if desc {
		column += " DESC"
	}
	return db.Order(column)
}
