package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lakbill/billing-app/internal/config"
	"github.com/lakbill/billing-app/internal/logging"
	"github.com/lakbill/billing-app/internal/models"
	"github.com/lakbill/billing-app/internal/numbering"
	"github.com/lakbill/billing-app/internal/server"
	"github.com/lakbill/billing-app/internal/storage"
	"github.com/lakbill/billing-app/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.Logger()
	logging.SetLevel(cfg.LogLevel)

	blobs, err := storage.Open(cfg.DataPath)
	if err != nil {
		log.WithError(err).Fatalf("open data store %s", cfg.DataPath)
	}

	scheme := numbering.Scheme{
		InvoicePrefix:   cfg.InvoicePrefix,
		QuotationPrefix: cfg.QuotationPrefix,
		Separator:       cfg.NumberSeparator,
		SplitDate:       cfg.NumberSplitDate,
		SeqWidth:        cfg.NumberSeqWidth,
	}
	company := models.CompanyDetails{
		Name:    cfg.CompanyName,
		Address: cfg.CompanyAddress,
		Phone:   cfg.CompanyPhone,
		Email:   cfg.CompanyEmail,
	}
	st := store.New(blobs, scheme, company, log)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(st, log)}

	go func() {
		log.Infof("server listening on %s (env=%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server gracefully stopped")
}
