package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Nissau96/alx-backend-graphql-crm/modules/crm"
)

// Outcome log file names, one per job.
const (
	heartbeatLogFile = "crm_heartbeat_log.txt"
	restockLogFile   = "low_stock_updates_log.txt"
	reminderLogFile  = "order_reminders_log.txt"
	reportLogFile    = "crm_report_log.txt"
)

// runHeartbeat logs that the CRM is alive and verifies the service
// endpoint responds.
func (m *Module) runHeartbeat(ctx context.Context) {
	timestamp := time.Now().Format("02/01/2006-15:04:05")
	m.appendLog(heartbeatLogFile, fmt.Sprintf("%s CRM is alive", timestamp))

	resp, err := m.crm.Hello(ctx)
	if err != nil {
		m.appendLog(heartbeatLogFile, fmt.Sprintf("CRM health check failed: %v", err))
		return
	}
	m.appendLog(heartbeatLogFile, fmt.Sprintf("CRM endpoint responsive: %s", resp.Message))
}

// runRestock tops up every low-stock product and logs the new levels.
func (m *Module) runRestock(ctx context.Context) {
	resp, err := m.crm.RestockLowStock(ctx)
	if err != nil {
		m.appendLog(restockLogFile, fmt.Sprintf("%s Error restocking products: %v", timestamp(), err))
		return
	}

	for _, p := range resp.UpdatedProducts {
		m.appendLog(restockLogFile, fmt.Sprintf("%s Restocked %s: new stock %d", timestamp(), p.Name, p.Stock))
	}
	m.appendLog(restockLogFile, fmt.Sprintf("%s %s", timestamp(), resp.Message))
}

// runOrderReminders logs a reminder line for each order placed within
// the reminder window.
func (m *Module) runOrderReminders(ctx context.Context) {
	since := time.Now().Add(-m.cfg.ReminderWindow)
	resp, err := m.crm.ListOrders(ctx, &crm.ListOrdersRequest{OrderDateAfter: &since})
	if err != nil {
		m.appendLog(reminderLogFile, fmt.Sprintf("%s Error processing order reminders: %v", timestamp(), err))
		return
	}

	if len(resp.Orders) == 0 {
		m.appendLog(reminderLogFile, fmt.Sprintf("%s No pending orders found in the last %d days.",
			timestamp(), int(m.cfg.ReminderWindow.Hours()/24)))
		return
	}

	for _, order := range resp.Orders {
		m.appendLog(reminderLogFile, fmt.Sprintf("%s Order ID: %s, Customer Email: %s",
			timestamp(), order.ID, order.Customer.Email))
	}
}

// runReport logs the CRM summary totals.
func (m *Module) runReport(ctx context.Context) {
	resp, err := m.crm.Report(ctx)
	if err != nil {
		m.appendLog(reportLogFile, fmt.Sprintf("%s - Error generating CRM report: %v", timestamp(), err))
		return
	}

	m.appendLog(reportLogFile, fmt.Sprintf("%s - Report: %d customers, %d orders, %.2f revenue",
		timestamp(), resp.TotalCustomers, resp.TotalOrders, resp.TotalRevenue))
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// appendLog appends one outcome line to a job's log file.
func (m *Module) appendLog(filename, line string) {
	path := filepath.Join(m.cfg.LogDir, filename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("[jobs] Failed to open %s: %v", path, err)
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		log.Printf("[jobs] Failed to write %s: %v", path, err)
	}
}
