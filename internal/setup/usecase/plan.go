package usecase

import (
	"portfolio-backend/internal/setup/config"
	"portfolio-backend/internal/setup/domain/model"
)

// PlanFromConfig builds the contacts setup plan from configuration.
func PlanFromConfig(cfg *config.Config) Plan {
	return Plan{
		Credential: model.Credential{
			Username: cfg.AppUser,
			Password: cfg.AppPassword,
			Role:     cfg.AppRole,
			Database: cfg.DatabaseName,
		},
		Schema:  model.ContactsSchema(cfg.ContactsCollection),
		Indexes: model.ContactIndexes(),
	}
}
