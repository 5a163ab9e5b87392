// Package app предоставляет маршруты приложения.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/abonneezy/abonneezy-api/internal/http/handlers/auth/login"
	"github.com/abonneezy/abonneezy-api/internal/http/handlers/auth/register"
	"github.com/abonneezy/abonneezy-api/internal/http/handlers/health"
	subcreate "github.com/abonneezy/abonneezy-api/internal/http/handlers/subscription/create"
	sublist "github.com/abonneezy/abonneezy-api/internal/http/handlers/subscription/list"
	subread "github.com/abonneezy/abonneezy-api/internal/http/handlers/subscription/read"
	subremove "github.com/abonneezy/abonneezy-api/internal/http/handlers/subscription/remove"
	subupdate "github.com/abonneezy/abonneezy-api/internal/http/handlers/subscription/update"
	"github.com/abonneezy/abonneezy-api/internal/http/handlers/user/profile"
	userremove "github.com/abonneezy/abonneezy-api/internal/http/handlers/user/remove"
	userupdate "github.com/abonneezy/abonneezy-api/internal/http/handlers/user/update"
	"github.com/abonneezy/abonneezy-api/internal/http/middlewarectx"
	"github.com/abonneezy/abonneezy-api/internal/http/response"
	"github.com/abonneezy/abonneezy-api/internal/services"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *services.UserService, subscriptionService *services.SubscriptionService, jwtMaker middlewarectx.TokenParser) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, req, response.Error("route not found"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users/register", register.New(logger, userService).ServeHTTP)
		r.Post("/users/login", login.New(logger, userService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/me", profile.New(logger, userService).ServeHTTP)
			r.Put("/users/me", userupdate.New(logger, userService).ServeHTTP)
			r.Delete("/users/me", userremove.New(logger, userService).ServeHTTP)

			r.Post("/subscriptions", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", subread.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", subupdate.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Get("/healthz", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
