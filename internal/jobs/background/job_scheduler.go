package background

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5"

	"tableside/internal/analytics"
	"tableside/internal/cart"
	"tableside/internal/repositories"
)

// JobScheduler manages recurring background jobs
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.Service
	cartStore    *cart.Store
	tableRepo    repositories.TableRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(analyticsSvc *analytics.Service, cartStore *cart.Store,
	tableRepo repositories.TableRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		cartStore:    cartStore,
		tableRepo:    tableRepo,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Analytics refresh job - every 5 minutes
	analyticsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshAnalytics, context.Background()),
		gocron.WithName("analytics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create analytics job: %v", err)
	} else {
		js.jobs["analytics"] = analyticsJob
	}

	// Orphaned cart sweep - every hour
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepOrphanedCarts),
		gocron.WithName("cart-sweep"),
	)
	if err != nil {
		log.Printf("Failed to create cart sweep job: %v", err)
	} else {
		js.jobs["cart-sweep"] = sweepJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshAnalytics recomputes the rolling service summary so admin reads
// stay cache-hot.
func (js *JobScheduler) refreshAnalytics(ctx context.Context) error {
	log.Printf("Starting analytics refresh")

	if _, err := js.analyticsSvc.Refresh(ctx); err != nil {
		log.Printf("Failed to refresh analytics: %v", err)
		return err
	}

	log.Printf("Completed analytics refresh")
	return nil
}

// sweepOrphanedCarts drops carts whose table has been deleted. Abandoned
// carts on live tables expire on their own through the store TTL.
func (js *JobScheduler) sweepOrphanedCarts() error {
	log.Printf("Starting orphaned cart sweep")

	ctx := context.Background()
	tableNumbers, err := js.cartStore.TableNumbers(ctx)
	if err != nil {
		log.Printf("Failed to list carts for sweep: %v", err)
		return err
	}

	swept := 0
	for _, tableNumber := range tableNumbers {
		_, err := js.tableRepo.GetByTableNumber(ctx, tableNumber)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Failed to check table %s during sweep: %v", tableNumber, err)
			continue
		}
		if err := js.cartStore.Clear(ctx, tableNumber); err != nil {
			log.Printf("Failed to clear orphaned cart for table %s: %v", tableNumber, err)
			continue
		}
		swept++
	}

	log.Printf("Completed orphaned cart sweep, cleared %d carts", swept)
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)

	if err != nil {
		return err
	}

	js.jobs[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobs)
	jobs := make([]string, 0, len(js.jobs))

	for name := range js.jobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}
