// Package remove реализует HTTP-обработчик удаления подписки.
//
// Перед удалением проверяется владение: отсутствующая подписка — 404,
// чужая — 403.
package remove

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

// Service описывает интерфейс бизнес-логики удаления подписки.
type Service interface {
	Read(ctx context.Context, id string) (*models.Subscription, error)
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает запросы на удаление подписки.
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
// @Summary Удалить подписку
// @Tags Subscriptions
// @Param id path string true "Идентификатор подписки"
// @Success 204 "Подписка удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Security BearerAuth
// @Router /subscriptions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.remove"

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
	if _, err := guard.Subscription(r.Context(), h.service.Read, id, userID); err != nil {
		log.Error("ownership check failed", sl.Err(err))
		response.Err(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Error("failed to delete subscription", sl.Err(err))
		response.Err(w, r, err)
		return
	}

	log.Info("subscription deleted", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
