package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	cardStore "github.com/MrJamesThe3rd/spendingtracker/internal/card/store"
	"github.com/MrJamesThe3rd/spendingtracker/internal/config"
	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/export"
	trackerHttp "github.com/MrJamesThe3rd/spendingtracker/internal/http"
	cardHandler "github.com/MrJamesThe3rd/spendingtracker/internal/http/card"
	exportHandler "github.com/MrJamesThe3rd/spendingtracker/internal/http/export"
	matchingHandler "github.com/MrJamesThe3rd/spendingtracker/internal/http/matching"
	txHandler "github.com/MrJamesThe3rd/spendingtracker/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendingtracker/internal/importer"
	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
	"github.com/MrJamesThe3rd/spendingtracker/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendingtracker/internal/matching/store"
	"github.com/MrJamesThe3rd/spendingtracker/internal/receipt"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendingtracker/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.NewLogger(os.Stdout))

	db, err := database.Open(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	feed := live.NewFeed()

	var (
		cardService        = card.NewService(cardStore.New(db, cfg.DB.Driver), feed)
		transactionService = transaction.NewService(txStore.New(db, cfg.DB.Driver), feed)
		nameRuleService    = matching.NewService(matchingStore.New(db, cfg.DB.Driver))
		importService      = importer.NewService(transactionService, importer.WithNameRules(nameRuleService))
		exportService      = export.NewService(cardService, transactionService)
		resizer            = receipt.NewResizer(cfg.Receipt.MaxSize, cfg.Receipt.JPEGQuality)
	)

	var (
		cardH        = cardHandler.NewHandler(cardService)
		transactionH = txHandler.NewHandler(transactionService, importService, resizer)
		exportH      = exportHandler.NewHandler(exportService)
		nameRulesH   = matchingHandler.NewHandler(nameRuleService)
	)

	router := trackerHttp.New(trackerHttp.Options{
		JWTSecret:      cfg.API.JWTSecret,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}, cardH, transactionH, exportH, nameRulesH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "driver", cfg.DB.Driver, "auth", cfg.API.JWTSecret != "")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
