package router

import (
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-account-service/internal/application"
	"github.com/oksasatya/go-ddd-account-service/internal/container"
	"github.com/oksasatya/go-ddd-account-service/internal/infrastructure/notification"
	pginfra "github.com/oksasatya/go-ddd-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-account-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-account-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-account-service/internal/router/modules"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

type AccountModuleDeps struct {
	Accounts       *application.AccountService
	Auth           *application.AuthService
	AccountHandler *handlers.AccountHandler
	AuthHandler    *handlers.AuthHandler
}

func buildAccountDeps() AccountModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := pginfra.NewAccountRepository(container.GetPGPool())

	// nil clients must stay nil interfaces
	var rdb redis.Cmdable
	if c := container.GetRedis(); c != nil {
		rdb = c
	}
	var publisher notification.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		publisher = p
	}
	var photoStorage application.PhotoStorage
	if s := container.GetPhotoStorage(); s != nil {
		photoStorage = s
	}
	var index application.AccountIndex
	if es := container.GetES(); es != nil {
		index = search.NewAccountIndex(es, cfg.ESAccountsIndex, logger)
	}

	var verifier application.EmailVerifier
	if rdb != nil {
		verifier = notification.NewVerificationMailer(rdb, publisher, cfg, logger)
	}

	rules := application.RulesPolicy{
		Features: cfg,
		Password: validation.PasswordPolicy{
			MinLength:        cfg.PasswordMinLength,
			RequireUppercase: cfg.PasswordRequireUppercase,
			RequireNumeric:   cfg.PasswordRequireNumeric,
			RequireSpecial:   cfg.PasswordRequireSpecial,
		},
	}
	photos := application.NewProfilePhotos(photoStorage, cfg.ProfilePhotoDir, logger)
	accounts := application.NewAccountService(repo, rules, helpers.BcryptHasher{}, verifier, photos, index, logger, cfg.MustVerifyEmail)
	auth := application.NewAuthService(repo, container.GetJWT(), rdb, logger)

	return AccountModuleDeps{
		Accounts:       accounts,
		Auth:           auth,
		AccountHandler: handlers.NewAccountHandler(accounts, auth, logger, cfg.CookieDomain, cfg.CookieSecure),
		AuthHandler:    handlers.NewAuthHandler(accounts, auth, logger, cfg.CookieDomain, cfg.CookieSecure),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildAccountDeps()
	r.Add(modules.NewAccountModule(deps.AccountHandler, deps.Auth, container.GetJWT()))
	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.Auth, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
