package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/auth"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/cache"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/catalog"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/config"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/db"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/kafka"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/logger"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/notify"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/schedule"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/server"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}

	cat, err := catalog.Load(cfg.ProductsFile)
	if err != nil {
		log.Fatal("loading catalog", zap.Error(err))
	}

	sched, err := schedule.New(cfg.Hours, cfg.Ordering)
	if err != nil {
		log.Fatal("building schedule", zap.Error(err))
	}

	var stg server.Storage
	switch cfg.StorageBackend {
	case "postgres":
		database, err := db.New(ctx)
		if err != nil {
			log.Fatal("connecting to postgres", zap.Error(err))
		}
		defer database.Close()
		stg = storage.NewPostgresStorage(database)
	default:
		fileStg, err := storage.NewFileStorage(cfg.DataDir)
		if err != nil {
			log.Fatal("opening file storage", zap.Error(err))
		}
		stg = fileStg
	}

	orderCache := cache.NewOrderCache(stg, log)
	if err := orderCache.Warm(ctx); err != nil {
		log.Warn("warming order cache", zap.Error(err))
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	audit := server.NewAuditManager(producer, log, 2, 5, 500*time.Millisecond)

	srv := server.New(server.Options{
		Storage:  stg,
		Catalog:  cat,
		Schedule: sched,
		Cache:    orderCache,
		SMS:      notify.NewSMSSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken, log),
		Email:    notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, log),
		Admin:    auth.Admin{User: cfg.AdminUser, PasswordHash: cfg.AdminPasswordHash},
		Payment:  cfg.Payment,
		Audit:    audit,
		Logger:   log,

		BaseURL:       cfg.BaseURL,
		ShopName:      cfg.ShopName,
		MinOrderValue: cfg.MinOrderValue,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTPPort)
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}
