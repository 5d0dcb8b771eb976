package httpapi

import (
	"log/slog"

	"trivia-api/internal/trivia"
)

type API struct {
	service *trivia.Service
	logger  *slog.Logger
}

func NewAPI(service *trivia.Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		service: service,
		logger:  logger,
	}
}
