package application

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-account-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

// Photo constraints.
var (
	PhotoExtensions = []string{"jpg", "jpeg", "png"}
	PhotoMaxKB      = int64(1024)
)

// RulesPolicy builds the account rule sets from the feature flags and password policy.
type RulesPolicy struct {
	Features Features
	Password validation.PasswordPolicy
}

// AccountRules returns the rules for creating (existing == nil) or updating an account.
func (p RulesPolicy) AccountRules(existing *entity.Account) validation.RuleSet {
	ignoreID := ""
	passwordPresence := "required"
	if existing != nil {
		ignoreID = existing.ID
		passwordPresence = "omitempty"
	}

	rules := validation.RuleSet{
		"first_name": {validation.Tag("required,string,max=20")},
		"last_name":  {validation.Tag("required,string,max=50")},
		"email": {
			validation.Tag("required,string,email,max=255"),
			validation.Unique{Column: "email", IgnoreID: ignoreID},
		},
		"password": {
			validation.Tag(passwordPresence + ",string"),
			validation.Password{Policy: p.Password},
			validation.Confirmed{},
		},
		"photo": {validation.Image{Extensions: PhotoExtensions, MaxKB: PhotoMaxKB}},
	}

	if existing == nil && p.Features != nil && p.Features.HasTermsAndPrivacyPolicy() {
		rules["terms"] = []validation.Rule{validation.Tag("accepted")}
	}
	return rules
}

// emailUniqueness answers Unique rules from the account repository.
type emailUniqueness struct {
	repo repo.AccountRepository
}

func (u emailUniqueness) Exists(ctx context.Context, column, value, ignoreID string) (bool, error) {
	if column != "email" {
		return false, fmt.Errorf("unique lookup on unsupported column %q", column)
	}
	return u.repo.EmailTaken(ctx, value, ignoreID)
}
