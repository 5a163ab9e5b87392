// Package update реализует HTTP-обработчик частичного обновления подписки.
//
// Перед изменением проверяется владение: отсутствующая подписка — 404,
// чужая — 403. Меняются только переданные поля.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/abonneezy/abonneezy-api/internal/http/guard"
	"github.com/abonneezy/abonneezy-api/internal/http/middlewarectx"
	"github.com/abonneezy/abonneezy-api/internal/http/response"
	"github.com/abonneezy/abonneezy-api/internal/lib/sl"
	"github.com/abonneezy/abonneezy-api/internal/models"
)

// Service описывает интерфейс бизнес-логики обновления подписки.
type Service interface {
	Read(ctx context.Context, id string) (*models.Subscription, error)
	Update(ctx context.Context, id string, req models.UpdateSubscriptionRequest) (*models.Subscription, error)
}

// Handler обрабатывает запросы на обновление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить подписку
// @Description Меняет только переданные поля подписки текущего пользователя.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Param request body models.UpdateSubscriptionRequest true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновлённая подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Security BearerAuth
// @Router /subscriptions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.UpdateSubscriptionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

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

	sub, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update subscription", sl.Err(err))
		response.Err(w, r, err)
		return
	}

	log.Info("subscription updated", slog.String("id", sub.ID))
	render.JSON(w, r, response.Success(map[string]any{
		"subscription": sub,
	}))
}
