package main

import (
	"context"
	"errors"
	"flag"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-account-service/config"
	"github.com/oksasatya/go-ddd-account-service/internal/application"
	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

// seed inserts a demo account through the account service without
// validation, the way an admin import would.
func main() {
	email := flag.String("email", "demo@example.com", "account email")
	password := flag.String("password", "password123", "account password")
	first := flag.String("first", "Demo", "first name")
	last := flag.String("last", "User", "last name")
	verified := flag.Bool("verified", true, "mark the email as verified")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewAccountRepository(pool)
	rules := application.RulesPolicy{Features: cfg, Password: validation.DefaultPasswordPolicy()}
	svc := application.NewAccountService(repo, rules, helpers.BcryptHasher{}, nil, nil, nil, logger, cfg.MustVerifyEmail)

	a, err := svc.Create(ctx, entity.Attributes{
		"first_name": *first,
		"last_name":  *last,
		"email":      *email,
		"password":   *password,
	}, false)
	if err != nil {
		if _, ok := validation.Fields(err); ok {
			logger.WithField("email", *email).Info("account already seeded")
			return
		}
		if errors.Is(err, application.ErrPersistence) {
			logger.Fatalf("failed to seed account: %v", err)
		}
		logger.Fatalf("seed: %v", err)
	}

	if *verified && a.RequiresEmailVerification {
		a.MarkEmailAsVerified(svc.Now())
		if err := repo.Update(ctx, a); err != nil {
			logger.Fatalf("failed to mark email verified: %v", err)
		}
	}
	logger.WithFields(map[string]any{"account_id": a.ID, "email": a.Email}).Info("seeded account")
}
