package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes: группа уже защищена JWTAuth + AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/admin/stats", h.GetStats)
}

// GetStats получает основную статистику платформы.
// @Summary		Получить статистику платформы
// @Description	Количество пользователей, рецептов, справочников и связей. Доступно только администраторам.
// @Tags		Admin
// @Security	BearerAuth
// @Success		200	{object}	StatisticsResponse
// @Failure		403	{object}	map[string]interface{} "Доступ запрещён (требуются права администратора)"
// @Router		/admin/stats [GET]
func (h *Handler) GetStats(c *gin.Context) {
	logging.Ctx(c.Request.Context()).Info().Int64("admin_id", utils.UserID(c)).Msg("admin action: GetStats")

	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
