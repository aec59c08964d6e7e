package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-backend/config"
	"storefront-backend/database"
	"storefront-backend/database/memory"
	"storefront-backend/handler"
	"storefront-backend/payment"
	"storefront-backend/server"
	"storefront-backend/storage"
)

const shutDownTimeOut = 10 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Failed to load configuration with error: %+v", err)
	}
	cfg.ConfigureLogging()

	var (
		store *database.Store
		db    *database.DB
	)
	switch cfg.Store {
	case config.StoreMemory:
		logrus.Warn("using the in-memory store, data is lost on exit")
		store = memory.New()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err = database.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoTransactions)
		if err != nil {
			cancel()
			logrus.Fatalf("Failed to connect to mongo with error: %+v", err)
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			logrus.Errorf("Failed to ensure indexes: %+v", err)
		}
		cancel()
		store = db.Store()
		logrus.Info("connected to mongo")
	}

	uploader, err := storage.NewDiskUploader(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("Failed to prepare uploads with error: %+v", err)
	}
	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.StripeKey,
		WebhookSecret: cfg.StripeWebhookKey,
		SuccessURL:    cfg.StripeSuccessURL,
		CancelURL:     cfg.StripeCancelURL,
		Currency:      cfg.CheckoutCurrency,
	})
	if cfg.StripeKey == "" {
		logrus.Warn("STRIPE_KEY is not set, checkout sessions will fail")
	}

	h := handler.New(store, gateway, uploader, []byte(cfg.JWTSecret), cfg.JWTTTL)
	srv := server.SetupRoutes(h, cfg.CORSOrigins)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to run server with error: %+v", err)
		}
	}()
	logrus.Infof("Server started at :%s", cfg.Port)

	<-done
	logrus.Info("shutting down server")
	if err := srv.Stop(shutDownTimeOut); err != nil {
		logrus.WithError(err).Error("failed to gracefully shutdown server")
	}
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutDownTimeOut)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			logrus.WithError(err).Error("failed to disconnect from mongo")
		}
	}
}
