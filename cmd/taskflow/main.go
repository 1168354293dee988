package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/api"
	"taskflow/internal/bot"
	"taskflow/internal/config"
	"taskflow/internal/jobs"
	"taskflow/internal/repository"
	"taskflow/internal/schedule"
	"taskflow/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		adapter  store.Adapter
		profiles store.ProfileStore
	)
	switch cfg.Storage {
	case config.StorageFile:
		fs, err := repository.NewFileStore(cfg.StorageDir)
		if err != nil {
			log.Fatalf("file store: %v", err)
		}
		adapter, profiles = fs, fs
	default:
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		sqlDB, err := db.DB()
		if err == nil {
			defer sqlDB.Close()
		}
		adapter = repository.NewTaskRepository(db)
		profiles = repository.NewProfileRepository(db)
	}

	tasks := store.New(adapter, cfg.DefaultUser, store.Options{
		MinEstimateMinutes: cfg.MinEstimateMinutes,
		MaxEstimateMinutes: cfg.MaxEstimateMinutes,
	})
	if err := tasks.Load(ctx); err != nil {
		log.Fatalf("load tasks: %v", err)
	}

	sched := schedule.New(tasks, schedule.Options{RejectOverlap: cfg.RejectOverlap})
	server := api.New(tasks, sched, profiles, cfg.DefaultUser)

	runner := jobs.NewRunner(time.Local)
	if cfg.ReloadInterval > 0 {
		if _, err := runner.ScheduleInterval(cfg.ReloadInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := tasks.Reload(jobCtx); err != nil {
				log.Printf("reload: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reload: %v", err)
		}
	}
	if cfg.TelegramToken != "" {
		notifier, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID, tasks)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		if _, err := runner.ScheduleDaily(cfg.ReportTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := notifier.SendDailyReport(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("report: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule report: %v", err)
		}
	}
	runner.Start()
	defer runner.Stop()

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: server}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("taskflow listening on %s", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("listen: %v", err)
	}
	log.Println("Shutdown complete.")
}
