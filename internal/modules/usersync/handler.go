package usersync

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(internal *gin.RouterGroup) {
	internal.POST("/users/sync", h.SyncUser)
}

// SyncUser синхронизирует профиль пользователя из провайдера идентификации.
// @Summary		Синхронизация пользователя
// @Description	Внутренний эндпоинт: создаёт или обновляет строку users по id из токенов провайдера.
// @Tags		Internal
// @Security	BearerAuth
// @Param		request	body	SyncUserRequest	true	"Профиль пользователя"
// @Success		200	{object}	SyncUserResponse "Обновлён"
// @Success		201	{object}	SyncUserResponse "Создан"
// @Failure		400	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{} "email или username занят другим пользователем"
// @Router		/internal/users/sync [POST]
func (h *Handler) SyncUser(c *gin.Context) {
	start := time.Now()

	var req SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.Invalid("body", "%s", err.Error()))
		return
	}

	user, result, err := h.service.SyncUser(c.Request.Context(), req)
	if err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).
			Int64("user_id", req.ID).
			Dur("latency", time.Since(start)).
			Msg("user sync failed")
		response.Fail(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().
		Int64("user_id", user.ID).
		Str("result", string(result)).
		Dur("latency", time.Since(start)).
		Msg("user synced")

	status := http.StatusOK
	if result == ResultCreated {
		status = http.StatusCreated
	}
	c.JSON(status, toResponse(user))
}
