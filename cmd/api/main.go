package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/h4j4x/expenses/internal/adapter/handler"
	"github.com/h4j4x/expenses/internal/adapter/middleware"
	"github.com/h4j4x/expenses/internal/adapter/storage"
	"github.com/h4j4x/expenses/internal/core/config"
	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/security"
	"github.com/h4j4x/expenses/internal/core/service"
	"github.com/h4j4x/expenses/internal/core/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to Postgres")

	userRepo := storage.NewUserRepository(dbPool)
	accountRepo := storage.NewAccountRepository(dbPool)
	categoryRepo := storage.NewCategoryRepository(dbPool)
	transactionRepo := storage.NewTransactionRepository(dbPool)
	outboxRepo := storage.NewOutboxRepository(dbPool)

	hasher := security.NewHasher(cfg.HashIterations, cfg.HashKeyBits)
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	users := service.NewUsers(userRepo, hasher)
	ledger := service.NewLedger(transactionRepo, accountRepo, categoryRepo, service.LedgerDefaults{
		CreationWay: domain.CreationWay(cfg.DefaultCreationWay),
		Status:      domain.TransactionStatus(cfg.DefaultTransactionStatus),
	})
	accounts := service.NewAccounts(accountRepo, ledger, service.AccountDefaults{
		AccountType: domain.AccountType(cfg.DefaultAccountType),
		Currency:    cfg.DefaultCurrency,
	})
	categories := service.NewCategories(categoryRepo)
	reconciler := service.NewReconciler(accountRepo, transactionRepo)

	reconcileWorker := worker.NewReconciler(outboxRepo, reconciler, cfg.WorkerPollInterval, cfg.WorkerMaxAttempts)
	go reconcileWorker.Run(ctx)

	authHandler := &handler.AuthHandler{Users: users, Tokens: tokens}
	accountHandler := &handler.AccountHandler{Accounts: accounts}
	categoryHandler := &handler.CategoryHandler{Categories: categories}
	transactionHandler := &handler.TransactionHandler{Ledger: ledger, Accounts: accounts}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)

	api := app.Group("/", middleware.Protected(tokens, users))
	api.Get("/accounts", accountHandler.List)
	api.Post("/accounts", accountHandler.Create)
	api.Get("/accounts/:key", accountHandler.Get)
	api.Put("/accounts/:key", accountHandler.Edit)
	api.Get("/accounts/:key/transactions", transactionHandler.List)
	api.Post("/accounts/:key/transactions", transactionHandler.Create)
	api.Post("/transactions/:key/confirm", transactionHandler.Confirm)
	api.Get("/categories", categoryHandler.List)
	api.Post("/categories", categoryHandler.Create)
	api.Put("/categories/:key", categoryHandler.Edit)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	dbPool.Close()
	slog.Info("Shutdown complete")
}
