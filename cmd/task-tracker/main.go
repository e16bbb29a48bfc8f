package main

import (
	"context"
	"log"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/api/server"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/config"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/store"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/tracker"
)

const redisTasksKey = "tasks"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Create logger
	lg := logger.New(cfg.LogLevel, nil)

	lg.Info("Starting task tracker", map[string]any{
		"version":       cfg.Version,
		"port":          cfg.ServerPort,
		"log_level":     cfg.LogLevel,
		"store_backend": cfg.StoreBackend,
		"v2_key_set":    cfg.APIKey != "",
	})

	// Wire up business logic dependencies
	taskStore, err := createStore(cfg)
	if err != nil {
		log.Fatalf("store setup failed: %v", err)
	}

	if err := seedSampleTask(taskStore, lg); err != nil {
		log.Fatalf("store seeding failed: %v", err)
	}

	tr := tracker.NewTracker(taskStore, lg)

	// Create and start server
	srv := server.New(tr, taskStore, cfg, lg)
	if err := srv.Start(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// createStore selects the store backend from configuration.
func createStore(cfg *config.Config) (store.TaskStore, error) {
	if cfg.StoreBackend == config.StoreRedis {
		return store.NewRedisTaskStore(cfg.RedisURL, redisTasksKey)
	}
	return store.NewMemoryTaskStore(), nil
}

// seedSampleTask inserts the initial sample record into an empty store,
// so a fresh deployment starts with task 1 already present.
func seedSampleTask(st store.TaskStore, lg *logger.Logger) error {
	ctx := context.Background()

	count, err := st.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	task, err := st.Add(ctx, "Complete Lab Activity", "Finish Lab Activity 2", false)
	if err != nil {
		return err
	}

	lg.Task("seeded sample task", task.ID, map[string]any{
		"title": task.Title,
	})
	return nil
}
