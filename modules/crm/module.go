package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/Nissau96/alx-backend-graphql-crm/domain/crm"
	"github.com/Nissau96/alx-backend-graphql-crm/events"
	"github.com/Nissau96/alx-backend-graphql-crm/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CRMModule is the core domain module. It owns the entity store and
// exposes the query/mutation operations as request-reply services.
type CRMModule struct {
	db       *gorm.DB
	repo     *domain.Repository
	eventBus mono.EventBus
	cache    *cache.Cache
	dbPath   string
}

// Compile-time interface checks.
var _ mono.Module = (*CRMModule)(nil)
var _ mono.ServiceProviderModule = (*CRMModule)(nil)
var _ mono.EventEmitterModule = (*CRMModule)(nil)
var _ mono.HealthCheckableModule = (*CRMModule)(nil)

// NewModule creates a new CRMModule backed by the SQLite database at
// dbPath.
func NewModule(dbPath string) *CRMModule {
	return &CRMModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *CRMModule) Name() string {
	return "crm"
}

// SetEventBus receives the application event bus.
func (m *CRMModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// SetCache attaches an optional cache used for the summary report.
// The module works without one.
func (m *CRMModule) SetCache(c *cache.Cache) {
	m.cache = c
}

// EmitEvents declares the events this module publishes.
func (m *CRMModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.CustomerCreatedV1.ToBase(),
		events.OrderCreatedV1.ToBase(),
		events.LowStockRestockedV1.ToBase(),
	}
}

// RegisterServices registers the CRM request-reply services. The
// framework prefixes them with "services.crm." on the wire.
func (m *CRMModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"hello": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "hello", json.Unmarshal, json.Marshal, m.hello)
		},
		"create-customer": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create-customer", json.Unmarshal, json.Marshal, m.createCustomer)
		},
		"bulk-create-customers": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "bulk-create-customers", json.Unmarshal, json.Marshal, m.bulkCreateCustomers)
		},
		"create-product": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create-product", json.Unmarshal, json.Marshal, m.createProduct)
		},
		"create-order": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create-order", json.Unmarshal, json.Marshal, m.createOrder)
		},
		"get-customer": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-customer", json.Unmarshal, json.Marshal, m.getCustomer)
		},
		"get-product": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-product", json.Unmarshal, json.Marshal, m.getProduct)
		},
		"get-order": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-order", json.Unmarshal, json.Marshal, m.getOrder)
		},
		"list-customers": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-customers", json.Unmarshal, json.Marshal, m.listCustomers)
		},
		"list-products": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-products", json.Unmarshal, json.Marshal, m.listProducts)
		},
		"list-orders": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-orders", json.Unmarshal, json.Marshal, m.listOrders)
		},
		"delete-customer": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete-customer", json.Unmarshal, json.Marshal, m.deleteCustomer)
		},
		"restock-low-stock": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "restock-low-stock", json.Unmarshal, json.Marshal, m.restockLowStock)
		},
		"report": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "report", json.Unmarshal, json.Marshal, m.report)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[crm] Registered %d services", len(services))
	return nil
}

// Start opens the database connection and runs migrations.
func (m *CRMModule) Start(_ context.Context) error {
	log.Printf("[crm] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	m.db = db
	m.repo = domain.NewRepository(db)

	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[crm] Module started")
	return nil
}

// Stop closes the database connection.
func (m *CRMModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[crm] Database connection closed")
	return nil
}

// Health performs a health check on the CRM module.
func (m *CRMModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}
