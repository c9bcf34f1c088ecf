package routers

import (
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/config"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/delivery/http/controllers"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	mw *middlewares.Middlewares,
	settlementController *controllers.SettlementController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Api-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(mw.RequestIDMiddleware)
	router.Use(mw.Logging(mw.Log))
	router.Use(mw.APIKeyAuth)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		attachSettlementRouter(r, settlementController)
	})
}
