package relation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recipes/:id/favorite", h.add(KindFavorite))
	rg.DELETE("/recipes/:id/favorite", h.remove(KindFavorite))
	rg.POST("/recipes/:id/shopping_cart", h.add(KindShopCart))
	rg.DELETE("/recipes/:id/shopping_cart", h.remove(KindShopCart))
}

// add godoc
// @Summary Добавить рецепт в избранное / корзину
// @Tags Relations
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 201 {object} recipe.ShortView
// @Failure 404 {object} map[string]any "Рецепт не найден"
// @Failure 409 {object} map[string]any "Уже в списке"
// @Router /recipes/{id}/favorite [post]
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) add(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.ParamID(c, "id")
		if err != nil {
			response.Fail(c, err)
			return
		}
		view, err := h.service.Add(c.Request.Context(), kind, utils.UserID(c), id)
		if err != nil {
			response.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

func (h *Handler) remove(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.ParamID(c, "id")
		if err != nil {
			response.Fail(c, err)
			return
		}
		if err := h.service.Remove(c.Request.Context(), kind, utils.UserID(c), id); err != nil {
			response.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
