package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/config"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/delivery/http/controllers"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/delivery/http/middlewares"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/delivery/http/routers"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/drivers/database"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/drivers/logger"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/drivers/messaging"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/drivers/storage"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/history"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/reconciliation"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/settlement"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/timeline"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/workflow"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/shared/archive"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/shared/ledgerqueue"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/shared/locker"
	redisrepo "github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/shared/redis"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	bootstrapLog := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	defer zapLogger.Sync()

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	postgresDB := database.NewPostgresDB(driverConfig)
	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	worker := bootstrapingTheApp(config.Bootstrap{
		Router:         chiRouter,
		Postgres:       postgresDB,
		MongoDB:        mongoClient.Database(driverConfig.MongoDB.DbName),
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Minio:          minioClient,
		Logger:         bootstrapLog,
		ZapLogger:      zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	stopWorker := worker.Start(workerCtx)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			bootstrapLog.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	bootstrapLog.Println("Waiting for pending requests that already received by server to be processed..")

	stopWorker()
	workerCancel()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		bootstrapLog.Fatalf("Server forced to shutdown: %v", err)
	}

	bootstrapLog.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) *settlement.Worker {
	queue, err := ledgerqueue.NewService(bootstrap.RabbitMQ, bootstrap.ZapLogger, bootstrap.InternalConfig.Settlement.QueuePrefetch)
	if err != nil {
		bootstrap.Logger.Fatalf("Failed to initialize ledger queue: %v", err)
	}

	// Shared services
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.ZapLogger)
	transmissionArchive := archive.NewMinioArchive(bootstrap.Minio, bootstrap.InternalConfig.Settlement.ArchiveBucketName)

	// Upstream collaborators
	timelineProvider := timeline.NewTimelineHTTPClient(bootstrap.InternalConfig.Upstream.TimelineBaseUrl)
	workflowNotifier := workflow.NewWorkflowHTTPNotifier(bootstrap.InternalConfig.Upstream.WorkflowBaseUrl)

	// Settlement
	historyRepository := history.NewOrderHistoryPostgresRepository(bootstrap.Postgres)
	stateRepository := settlement.NewSettlementStateMongoRepository(bootstrap.MongoDB)
	engine := reconciliation.NewEngine(bootstrap.ZapLogger, reconciliation.Config{
		EmptyTimelineIsCessation: bootstrap.InternalConfig.Settlement.EmptyTimelineIsCessation,
	})
	settlementUsecase := settlement.NewSettlementUsecase(
		bootstrap.ZapLogger,
		bootstrap.InternalConfig,
		engine,
		historyRepository,
		stateRepository,
		timelineProvider,
		workflowNotifier,
		queue,
		transmissionArchive,
		lockerService,
	)
	settlementController := controllers.NewSettlementController(bootstrap.ZapLogger, settlementUsecase)

	mw := &middlewares.Middlewares{
		Log:            bootstrap.ZapLogger,
		InternalConfig: bootstrap.InternalConfig,
	}
	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, mw, settlementController)

	return settlement.NewWorker(bootstrap.ZapLogger, bootstrap.InternalConfig, lockerService, queue, settlementUsecase)
}
