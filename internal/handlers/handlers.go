package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/internal/middleware"
	"github.com/temcen/nutrirec/internal/services"
	"github.com/temcen/nutrirec/internal/validation"
)

type Handlers struct {
	Health  *HealthHandler
	Food    *FoodHandler
	Session *SessionHandler
	Admin   *AdminHandler
}

func New(logger *logrus.Logger, services *services.Services, cfg *config.Config) *Handlers {
	responseValidator := middleware.NewResponseValidator(
		validation.NewSchemaValidator(),
		cfg.Server.Mode != "production",
	)

	return &Handlers{
		Health:  NewHealthHandler(logger, services.Health),
		Food:    NewFoodHandler(services.RecommendationOrchestrator, responseValidator, cfg.Recommendation.SampleSize, logger),
		Session: NewSessionHandler(services.RecommendationOrchestrator, NewSessionStore(), logger),
		Admin:   NewAdminHandler(services.RecommendationOrchestrator, logger),
	}
}
