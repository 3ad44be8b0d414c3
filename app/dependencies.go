package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/sagarmiglani/accessgate/auth"
	"github.com/sagarmiglani/accessgate/config"
	"github.com/sagarmiglani/accessgate/gates"
	"github.com/sagarmiglani/accessgate/middleware"
	"github.com/sagarmiglani/accessgate/repositories"
	"github.com/sagarmiglani/accessgate/repositories/postgres"
	"github.com/sagarmiglani/accessgate/services/access"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Storage
	Registrations repositories.RegistrationRepository

	// Domain
	GateFactory *gates.Factory
	Access      *access.Service

	// Auth
	Tokens         *auth.TokenService
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initAccess(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize access service: %w", err)
	}

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the PostgreSQL connection pool and ensures the
// registration schema exists.
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	d.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Registrations = postgres.NewRegistrationRepository(db, d.Logger)

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initAccess builds the gate factory and the access service, then loads
// the persisted registrations into the live registry.
func (d *Dependencies) initAccess(ctx context.Context, cfg *config.Config) error {
	d.GateFactory = gates.NewFactory()
	d.Access = access.NewService(d.Registrations, d.GateFactory, cfg.Gate.CallTimeout, d.Logger)

	if err := d.Access.Load(ctx); err != nil {
		return fmt.Errorf("failed to load gate registrations: %w", err)
	}

	d.Logger.Info("access service initialized",
		zap.Int("live_gates", d.Access.LiveCount()),
		zap.Duration("gate_timeout", cfg.Gate.CallTimeout))

	return nil
}

func (d *Dependencies) initAuth(cfg *config.Config) error {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		// Development convenience: generate an ephemeral secret so the
		// service starts without configuration. Tokens do not survive a
		// restart.
		generated, err := randomSecret()
		if err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		secret = generated
		d.Logger.Warn("JWT_SECRET not set, using an ephemeral generated secret")
	}

	tokens, err := auth.NewTokenService(auth.Config{
		Secret:   secret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	d.Tokens = tokens
	d.AuthMiddleware = middleware.NewAuthMiddleware(tokens, d.Logger)

	d.Logger.Info("token service initialized", zap.String("issuer", cfg.Auth.Issuer))
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
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
