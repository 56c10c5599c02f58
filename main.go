package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"salesloop/crm/internal/api"
	"salesloop/crm/internal/cache"
	"salesloop/crm/internal/config"
	"salesloop/crm/internal/db"
	"salesloop/crm/internal/email"
	"salesloop/crm/internal/services"
	"salesloop/crm/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		config.Logger().WithError(err).Fatal("Failed to load configuration")
	}
	log := config.Logger()

	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.WithError(err).Error("Error disconnecting from MongoDB")
		}
	}()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.WithError(err).Error("Error disconnecting from Redis")
		}
	}()

	// Falls back to a logging sender when SMTP is not configured.
	emailSender := email.NewSMTPSender(cfg)

	recordService := services.NewRecordService(mongoDb)
	taskClient := tasks.NewClient(redisClient)
	taskProcessor := tasks.NewTaskProcessor(cfg, emailSender, recordService)

	var wg sync.WaitGroup

	var apiSrv *http.Server
	var taskSrv *asynq.Server
	var scheduler *asynq.Scheduler

	log.WithField("mode", cfg.RunMode).Info("Starting application")

	apiMode := func() {
		router := api.SetupRouter(cfg, mongoDb, redisClient, taskClient)
		apiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.WithField("port", cfg.ApiPort).Info("API listening")
			if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Fatal("API ListenAndServe error")
			}
			log.Info("API server stopped")
		}()
	}

	bgMode := func() {
		srv, mux := tasks.SetupServer(redisClient, taskProcessor)
		taskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Background task server starting")
			if err := taskSrv.Run(mux); err != nil {
				log.WithError(err).Fatal("Background task server error")
			}
			log.Info("Background task server stopped")
		}()

		sched, err := tasks.SetupScheduler(redisClient)
		if err != nil {
			log.WithError(err).Fatal("Failed to set up task scheduler")
		}
		scheduler = sched
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := scheduler.Run(); err != nil {
				log.WithError(err).Fatal("Task scheduler error")
			}
			log.Info("Task scheduler stopped")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.WithField("mode", cfg.RunMode).Fatal("Invalid run mode")
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("Shutting down gracefully")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if apiSrv != nil {
		if err := apiSrv.Shutdown(ctxShutdown); err != nil {
			log.WithError(err).Error("API server shutdown error")
		}
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if taskSrv != nil {
		taskSrv.Shutdown()
	}

	wg.Wait()
	log.Info("Server gracefully stopped")
}
