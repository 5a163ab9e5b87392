// Package read реализует HTTP-обработчик получения конкретной подписки по ID.
//
// Перед возвратом записи проверяется владение: отсутствующая подписка — 404,
// чужая — 403.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/abonneezy/abonneezy-api/internal/http/guard"
	"github.com/abonneezy/abonneezy-api/internal/http/middlewarectx"
	"github.com/abonneezy/abonneezy-api/internal/http/response"
	"github.com/abonneezy/abonneezy-api/internal/lib/sl"
	"github.com/abonneezy/abonneezy-api/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	Read(ctx context.Context, id string) (*models.Subscription, error)
}

// Handler обрабатывает запросы на получение подписки по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить подписку по ID
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Success 200 {object} response.Response "Данные подписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Security BearerAuth
// @Router /subscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	sub, err := guard.Subscription(r.Context(), h.service.Read, id, userID)
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		response.Err(w, r, err)
		return
	}

	render.JSON(w, r, response.Success(map[string]any{
		"subscription": sub,
	}))
}
