package di

import (
	"github.com/coachly/backend-auth/internal/handler"
	"github.com/coachly/backend-auth/internal/repository"
	"github.com/coachly/backend-auth/internal/security"
	"github.com/coachly/backend-auth/internal/service"
	"github.com/coachly/backend-auth/internal/token"
	"github.com/coachly/backend-auth/pkg/config"
	"github.com/coachly/backend-auth/pkg/database"
	pkgredis "github.com/coachly/backend-auth/pkg/redis"
)

// Container holds all dependencies for the auth service.
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *pkgredis.Client

	// Repositories
	AccountRepo repository.AccountRepository
	ProfileRepo repository.ProfileRepository
	TxManager   *repository.TxManager

	// Core
	Hasher *security.PasswordHasher
	Issuer *token.Issuer

	// Services
	AuthService     service.AuthService
	ApprovalService service.ApprovalService
	ProfileService  service.ProfileService

	// Handlers
	HealthHandler  *handler.HealthHandler
	AuthHandler    *handler.AuthHandler
	AdminHandler   *handler.AdminHandler
	ProfileHandler *handler.ProfileHandler
}

// NewContainer wires the repository, service and handler graph.
func NewContainer(cfg *config.Config, db *database.PostgresDB, redisClient *pkgredis.Client) *Container {
	c := &Container{
		DB:    db,
		Redis: redisClient,
	}

	c.AccountRepo = repository.NewPostgresAccountRepository(db.Pool())
	c.ProfileRepo = repository.NewPostgresProfileRepository(db.Pool())
	c.TxManager = repository.NewTxManager(db.Pool())

	c.Hasher = security.NewPasswordHasher(cfg.Auth.BcryptCost)
	c.Issuer = token.NewIssuer(token.Config{
		Secret:      cfg.Auth.Secret,
		Issuer:      cfg.Auth.Issuer,
		DefaultTTL:  cfg.Auth.TokenTTL,
		RememberTTL: cfg.Auth.RememberTokenTTL,
	})

	c.AuthService = service.NewAuthService(
		c.AccountRepo,
		c.ProfileRepo,
		c.TxManager,
		c.Hasher,
		c.Issuer,
	)
	c.ApprovalService = service.NewApprovalService(c.AccountRepo)
	c.ProfileService = service.NewProfileService(c.ProfileRepo, c.AccountRepo)

	c.HealthHandler = handler.NewHealthHandler(db, redisClient)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.AdminHandler = handler.NewAdminHandler(c.ApprovalService)
	c.ProfileHandler = handler.NewProfileHandler(c.ProfileService)

	return c
}
