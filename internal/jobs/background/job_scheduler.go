package background

import (
	"context"
	"log"
	"sync"
	"time"

	"retailstock/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	lowStockAlerts *jobs.LowStockAlertService
	ledgerExport   *jobs.LedgerExportService
	registered     map[string]gocron.Job
	mu             sync.RWMutex
}

func NewJobScheduler(lowStockAlerts *jobs.LowStockAlertService, ledgerExport *jobs.LedgerExportService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		lowStockAlerts: lowStockAlerts,
		ledgerExport:   ledgerExport,
		registered:     make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.lowStockAlerts.ScheduledLowStockCheck, context.Background()),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low-stock alerts job: %v", err)
	} else {
		js.registered["low-stock-alerts"] = alertsJob
	}

	exportJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.ledgerExport.ScheduledLedgerExport, context.Background()),
		gocron.WithName("ledger-export"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create ledger export job: %v", err)
	} else {
		js.registered["ledger-export"] = exportJob
	}

	log.Printf("Registered %d background jobs", len(js.registered))
}

// GetJobStatus returns the names of scheduled jobs, for the health endpoint.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.registered))
	for name := range js.registered {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.registered),
		"jobs":       names,
	}
}
