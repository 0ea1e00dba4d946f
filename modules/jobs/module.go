// Package jobs runs the scheduled CRM maintenance work: heartbeat
// logging, low-stock restocking, order reminders and periodic
// reporting. Every job reaches the CRM through the same service
// boundary the HTTP API uses.
package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Nissau96/alx-backend-graphql-crm/modules/crm"
	"github.com/go-monolith/mono"
)

// Config holds the job schedule and log destination.
type Config struct {
	HeartbeatInterval time.Duration
	RestockInterval   time.Duration
	ReminderInterval  time.Duration
	ReportInterval    time.Duration
	// ReminderWindow is how far back the order-reminder job looks.
	ReminderWindow time.Duration
	// LogDir receives the per-job outcome log files.
	LogDir string
}

// DefaultConfig returns the default job configuration.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 5 * time.Minute,
		RestockInterval:   12 * time.Hour,
		ReminderInterval:  24 * time.Hour,
		ReportInterval:    24 * time.Hour,
		ReminderWindow:    7 * 24 * time.Hour,
		LogDir:            os.TempDir(),
	}
}

// Module schedules the CRM jobs. Each job runs on its own ticker;
// failures are logged and the next tick simply tries again. No job
// retries internally.
type Module struct {
	cfg      Config
	crm      crm.CRMPort
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)

// NewModule creates a new jobs module.
func NewModule(cfg Config) *Module {
	return &Module{cfg: cfg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "jobs"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"crm"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "crm" {
		m.crm = crm.NewCRMAdapter(container)
	}
}

// Start launches one scheduler goroutine per job.
func (m *Module) Start(_ context.Context) error {
	if m.crm == nil {
		return fmt.Errorf("crm dependency not set")
	}

	m.stopChan = make(chan struct{})

	m.wg.Add(4)
	go m.loop("heartbeat", m.cfg.HeartbeatInterval, true, m.runHeartbeat)
	go m.loop("restock", m.cfg.RestockInterval, false, m.runRestock)
	go m.loop("order-reminders", m.cfg.ReminderInterval, false, m.runOrderReminders)
	go m.loop("report", m.cfg.ReportInterval, false, m.runReport)

	log.Printf("[jobs] Scheduled jobs started (heartbeat %s, restock %s, reminders %s, report %s)",
		m.cfg.HeartbeatInterval, m.cfg.RestockInterval, m.cfg.ReminderInterval, m.cfg.ReportInterval)
	return nil
}

// Stop signals all schedulers and waits for in-flight runs.
func (m *Module) Stop(ctx context.Context) error {
	if m.stopChan == nil {
		return nil
	}

	m.stopOnce.Do(func() {
		close(m.stopChan)
	})

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[jobs] All schedulers stopped")
		return nil
	case <-ctx.Done():
		log.Println("[jobs] Shutdown timeout exceeded waiting for schedulers")
		return ctx.Err()
	}
}

// loop drives a single job on its ticker until the module stops.
func (m *Module) loop(name string, interval time.Duration, runImmediately bool, job func(context.Context)) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if runImmediately {
		m.runOnce(name, job)
	}

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.runOnce(name, job)
		}
	}
}

// runOnce executes a single job pass with a bounded context.
func (m *Module) runOnce(name string, job func(context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[jobs] %s job panicked: %v", name, r)
		}
	}()

	job(ctx)
}
