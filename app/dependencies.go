package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finware/finance-manager/auth"
	"github.com/finware/finance-manager/config"
	"github.com/finware/finance-manager/middleware"
	"github.com/finware/finance-manager/repositories"
	"github.com/finware/finance-manager/repositories/postgres"
	"github.com/finware/finance-manager/services"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users        repositories.UserRepository
	Transactions repositories.TransactionRepository
	Investments  repositories.InvestmentRepository
	TxManager    repositories.TransactionManager

	// Auth
	TokenService   *auth.TokenService
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	UserService        *services.UserService
	TransactionService *services.TransactionService
	InvestmentService  *services.InvestmentService
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initAuth(cfg)
	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := factory.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Transactions = repos.Transactions
	d.Investments = repos.Investments
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initAuth initializes the token service and auth middleware
func (d *Dependencies) initAuth(cfg *config.Config) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// Config validation only allows this in development
		secret = "dev-only-insecure-secret"
		d.Logger.Warn("JWT_SECRET not set, using development fallback")
	}

	d.TokenService = auth.NewTokenService([]byte(secret), cfg.Auth.TokenTTL)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.TokenService, d.Logger)
}

// initServices initializes the domain services
func (d *Dependencies) initServices(cfg *config.Config) {
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	d.UserService = services.NewUserService(d.Users, hasher, d.TokenService, d.TxManager, d.Logger)
	d.TransactionService = services.NewTransactionService(d.Transactions, d.Logger)
	d.InvestmentService = services.NewInvestmentService(d.Investments, d.Logger)

	d.Logger.Info("services initialized")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
