package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	redisstore "invoicefin/internal/cache/redis"
	"invoicefin/internal/config"
	"invoicefin/internal/gsp/cygnet"
	"invoicefin/internal/gsp/vayana"
	"invoicefin/internal/handler"
	"invoicefin/internal/logger"
	"invoicefin/internal/repository/postgres"
	"invoicefin/internal/router"
	"invoicefin/internal/service"
	s3storage "invoicefin/internal/storage/s3"
	"invoicefin/internal/webhook"
)

// @title invoicefin API
// @version 1.0
// @description Signed invoice registration, financing and settlement API.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	serverLog := logger.WithComponent("server")

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient := redisstore.NewClient(&cfg.Redis)
	defer redisClient.Close()
	kv := redisstore.NewStore(redisClient)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize repositories
	merchantRepo := postgres.NewMerchantRepo(db)
	hubRepo := postgres.NewHubRepo(db)
	ledgerRepo := postgres.NewLedgerRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	archiveRepo := postgres.NewArchiveRepo(db)
	settlementRepo := postgres.NewSettlementRepo(db)
	gspUserRepo := postgres.NewGSPUserRepo(db)
	vayanaTaskRepo := postgres.NewVayanaTaskRepo(db)
	requestLogRepo := postgres.NewRequestLogRepo(db)
	hubLogRepo := postgres.NewHubRequestLogRepo(db)
	postRepo := postgres.NewPostProcessingRepo(db)

	// Initialize external clients
	vayanaClient := vayana.NewClient(&cfg.Vayana)
	cygnetClient := cygnet.NewClient(&cfg.Cygnet)
	sender := webhook.NewSender(&cfg.Webhook)

	// Initialize services
	pool := service.NewWorkerPool(cfg.Jobs.AsyncConcurrency, cfg.Jobs.AsyncTaskTimeout)
	sessions := service.NewGSPSessionProvider(vayanaClient, kv, cfg.GSP.TokenTTL)
	gspSvc := service.NewGSPService(gspUserRepo, vayanaTaskRepo, invoiceRepo, vayanaClient, cygnetClient, sessions, s3Client, cfg.GSP)
	archivalSvc := service.NewArchivalService(archiveRepo, cfg.Archival)
	ledgerSvc := service.NewLedgerService(ledgerRepo, invoiceRepo, gspSvc, pool)
	financingSvc := service.NewFinancingService(ledgerRepo, invoiceRepo, settlementRepo, archivalSvc)
	settlementSvc := service.NewSettlementService(ledgerRepo, invoiceRepo, settlementRepo)
	webhookSvc := service.NewWebhookService(sender, postRepo, cfg.Hub)
	signatureSvc := service.NewSignatureService(merchantRepo, hubRepo)

	dispatcher, err := service.NewTaskDispatcher(service.NewTaskHandlers(service.TaskServices{
		Ledgers:        ledgerSvc,
		Financing:      financingSvc,
		Settlement:     settlementSvc,
		GSP:            gspSvc,
		Webhooks:       webhookSvc,
		PostProcessing: postRepo,
	}))
	if err != nil {
		return fmt.Errorf("failed to build task dispatcher: %w", err)
	}
	asyncSvc := service.NewAsyncService(postRepo, dispatcher, pool)

	// Setup router
	r := router.Setup(
		router.Services{
			Signatures:  signatureSvc,
			RequestLogs: service.NewRequestLogService(requestLogRepo),
			HubLogs:     service.NewRequestLogService(hubLogRepo),
		},
		router.Handlers{
			Ledger:     handler.NewLedgerHandler(ledgerSvc, financingSvc),
			Settlement: handler.NewSettlementHandler(settlementSvc),
			Async:      handler.NewAsyncHandler(asyncSvc),
			Hub:        handler.NewHubHandler(asyncSvc),
			Health:     handler.NewHealthHandler(db, handler.PingFunc(kv.Ping)),
		},
		cfg.Server.AllowedOrigins,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		serverLog.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	serverLog.Info().Msg("shutdown signal received, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverLog.Error().Err(err).Msg("server shutdown")
	}

	// Accepted async requests still owe their webhook.
	pool.Wait()
	serverLog.Info().Msg("server stopped")
	return nil
}
