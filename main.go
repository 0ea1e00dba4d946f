package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/Nissau96/alx-backend-graphql-crm/modules/api"
	cachemod "github.com/Nissau96/alx-backend-graphql-crm/modules/cache"
	crmmod "github.com/Nissau96/alx-backend-graphql-crm/modules/crm"
	"github.com/Nissau96/alx-backend-graphql-crm/modules/jobs"
	"github.com/Nissau96/alx-backend-graphql-crm/modules/notification"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	dbPath := getEnv("DB_PATH", "crm.db")
	httpPort := getEnvInt("HTTP_PORT", 8000)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cacheTTL := getEnvDuration("CACHE_TTL", 30*time.Second)

	jobCfg := jobs.DefaultConfig()
	jobCfg.HeartbeatInterval = getEnvDuration("HEARTBEAT_INTERVAL", jobCfg.HeartbeatInterval)
	jobCfg.RestockInterval = getEnvDuration("RESTOCK_INTERVAL", jobCfg.RestockInterval)
	jobCfg.ReminderInterval = getEnvDuration("REMINDER_INTERVAL", jobCfg.ReminderInterval)
	jobCfg.ReportInterval = getEnvDuration("REPORT_INTERVAL", jobCfg.ReportInterval)
	jobCfg.LogDir = getEnv("JOB_LOG_DIR", jobCfg.LogDir)

	log.Println("=== CRM Backend ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Redis: %s", redisAddr)
	log.Printf("Job logs: %s", jobCfg.LogDir)

	cacheModule := cachemod.NewModule(redisAddr, "crm:", cacheTTL)
	crmModule := crmmod.NewModule(dbPath)
	notificationModule := notification.NewModule()
	jobsModule := jobs.NewModule(jobCfg)
	apiModule := apimod.NewModule(httpPort)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then modules with dependencies.
	app.Register(cacheModule)
	app.Register(crmModule)
	app.Register(notificationModule)
	app.Register(jobsModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Cache is optional and wired after start, once the Redis probe
	// has run.
	crmModule.SetCache(cacheModule.GetCache())

	printStartupInfo(httpPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("CRM backend started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("  GET    /health                     - Health check")
	log.Println("  GET    /api/v1/hello               - Liveness probe")
	log.Println("  POST   /api/v1/customers           - Create a customer")
	log.Println("  POST   /api/v1/customers/bulk      - Bulk-create customers")
	log.Println("  GET    /api/v1/customers           - List/filter customers")
	log.Println("  GET    /api/v1/customers/:id       - Get a customer")
	log.Println("  DELETE /api/v1/customers/:id       - Delete a customer (cascades to orders)")
	log.Println("  POST   /api/v1/products            - Create a product")
	log.Println("  GET    /api/v1/products            - List/filter products")
	log.Println("  GET    /api/v1/products/:id        - Get a product")
	log.Println("  POST   /api/v1/products/restock    - Restock low-stock products")
	log.Println("  POST   /api/v1/orders              - Create an order")
	log.Println("  GET    /api/v1/orders              - List/filter orders")
	log.Println("  GET    /api/v1/orders/:id          - Get an order")
	log.Println("  GET    /api/v1/report              - CRM summary report")
	log.Println("")
	log.Println("Scheduled jobs: heartbeat, low-stock restock, order reminders, report")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s '%s', using default %d", key, value, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s '%s', using default %s", key, value, fallback)
	}
	return fallback
}
