package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Nissau96/alx-backend-graphql-crm/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityLog is one recorded CRM activity entry.
type ActivityLog struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule subscribes to CRM domain events and keeps an
// activity trail. It is a driven adapter: nothing in the core depends
// on it.
type NotificationModule struct {
	activity []ActivityLog
	mu       sync.RWMutex
}

// Compile-time interface checks.
var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)

// NewModule creates a new NotificationModule.
func NewModule() *NotificationModule {
	return &NotificationModule{
		activity: make([]ActivityLog, 0),
	}
}

// Name returns the module name.
func (m *NotificationModule) Name() string {
	return "notification"
}

// RegisterEventConsumers subscribes to the CRM events.
func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.CustomerCreatedV1, m.handleCustomerCreated, m); err != nil {
		return fmt.Errorf("failed to register CustomerCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderCreatedV1, m.handleOrderCreated, m); err != nil {
		return fmt.Errorf("failed to register OrderCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.LowStockRestockedV1, m.handleLowStockRestocked, m); err != nil {
		return fmt.Errorf("failed to register LowStockRestocked consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: CustomerCreated, OrderCreated, LowStockRestocked")
	return nil
}

func (m *NotificationModule) handleCustomerCreated(_ context.Context, event events.CustomerCreatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Customer created: %s <%s>", event.Name, event.Email)
	m.record(event.CustomerID, "customer_created",
		fmt.Sprintf("Welcome %s! Your account (%s) has been created.", event.Name, event.Email))
	return nil
}

func (m *NotificationModule) handleOrderCreated(_ context.Context, event events.OrderCreatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Order %s placed by %s for %.2f", event.OrderID, event.CustomerEmail, event.TotalAmount)
	m.record(event.OrderID, "order_created",
		fmt.Sprintf("Order %s confirmed for %s (total %.2f)", event.OrderID, event.CustomerEmail, event.TotalAmount))
	return nil
}

func (m *NotificationModule) handleLowStockRestocked(_ context.Context, event events.LowStockRestockedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Restocked %d low-stock products", event.UpdatedCount)
	m.record("", "low_stock_restocked",
		fmt.Sprintf("%d low-stock products were restocked", event.UpdatedCount))
	return nil
}

func (m *NotificationModule) record(id, activityType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activity = append(m.activity, ActivityLog{
		ID:        id,
		Type:      activityType,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Activity returns a copy of the recorded activity trail.
func (m *NotificationModule) Activity() []ActivityLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ActivityLog, len(m.activity))
	copy(result, m.activity)
	return result
}

// Start initializes the module.
func (m *NotificationModule) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for CRM events")
	return nil
}

// Stop shuts down the module.
func (m *NotificationModule) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
