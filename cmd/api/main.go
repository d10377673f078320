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
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	accountStore "github.com/fundsio/funds/internal/account/store"
	"github.com/fundsio/funds/internal/amqp"
	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/config"
	"github.com/fundsio/funds/internal/constraint"
	constraintStore "github.com/fundsio/funds/internal/constraint/store"
	"github.com/fundsio/funds/internal/database"
	"github.com/fundsio/funds/internal/goal"
	goalStore "github.com/fundsio/funds/internal/goal/store"
	fundsHttp "github.com/fundsio/funds/internal/http"
	accountHandler "github.com/fundsio/funds/internal/http/account"
	goalHandler "github.com/fundsio/funds/internal/http/goal"
	importHandler "github.com/fundsio/funds/internal/http/importcsv"
	matchingHandler "github.com/fundsio/funds/internal/http/matching"
	notificationHandler "github.com/fundsio/funds/internal/http/notification"
	txHandler "github.com/fundsio/funds/internal/http/transaction"
	userHandler "github.com/fundsio/funds/internal/http/user"
	"github.com/fundsio/funds/internal/importer"
	"github.com/fundsio/funds/internal/ledger"
	ledgerStore "github.com/fundsio/funds/internal/ledger/store"
	"github.com/fundsio/funds/internal/matching"
	matchingStore "github.com/fundsio/funds/internal/matching/store"
	"github.com/fundsio/funds/internal/notification"
	"github.com/fundsio/funds/internal/notification/hub"
	notificationStore "github.com/fundsio/funds/internal/notification/store"
	"github.com/fundsio/funds/internal/transaction"
	txStore "github.com/fundsio/funds/internal/transaction/store"
	"github.com/fundsio/funds/internal/user"
	userStore "github.com/fundsio/funds/internal/user/store"
)

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidateAPI(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TTL)
	live := hub.New(issuer.Authenticate, cfg.CORS.AllowedOrigins)

	var publisher notification.Publisher = live

	if cfg.AMQP.URL != "" {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to AMQP: %w", err)
		}
		defer client.Close()

		// Every instance relays the exchange into its own hub, so a push
		// reaches subscribers connected anywhere.
		go func() {
			if err := client.Relay(ctx, live); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("notification relay stopped", "error", err)
			}
		}()

		publisher = client
	}

	var (
		accounts    = accountStore.New(db)
		constraints = constraintStore.New(db)
		goals       = goalStore.New(db)
	)

	var (
		notificationService = notification.NewService(notificationStore.New(db), publisher)
		userService         = user.NewService(userStore.New(db))
		accountService      = account.NewService(accounts, notificationService)
		transactionService  = transaction.NewService(txStore.New(db))
		constraintService   = constraint.NewService(constraints, accounts)
		goalService         = goal.NewService(goals, accounts, constraints, notificationService)
		ledgerService       = ledger.NewService(ledgerStore.New(db), goals, notificationService)
		matchingService     = matching.NewService(matchingStore.New(db))
		importService       = importer.NewService()
	)

	router := fundsHttp.New(issuer, cfg.CORS.AllowedOrigins, fundsHttp.Handlers{
		Users:         userHandler.NewHandler(userService, issuer),
		Accounts:      accountHandler.NewHandler(accountService, ledgerService),
		Transactions:  txHandler.NewHandler(transactionService, ledgerService),
		Goals:         goalHandler.NewHandler(goalService, constraintService, ledgerService),
		Notifications: notificationHandler.NewHandler(notificationService),
		Import:        importHandler.NewHandler(importService, matchingService, ledgerService),
		Matching:      matchingHandler.NewHandler(matchingService),
		Live:          live,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
