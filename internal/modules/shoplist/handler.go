package shoplist

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/utils"
)

type Handler struct {
	service  *Service
	renderer Renderer
	now      func() time.Time
}

func NewHandler(service *Service, renderer Renderer) *Handler {
	return &Handler{service: service, renderer: renderer, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes/download_shopping_cart", h.Download)
}

// Download godoc
// @Summary Скачать список покупок
// @Description Суммирует ингредиенты всех рецептов из корзины и отдаёт PDF
// @Tags ShoppingList
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} file
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	lines, err := h.service.Build(c.Request.Context(), utils.UserID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, lines, h.now()); err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.renderer.FileName()))
	c.Data(http.StatusOK, h.renderer.ContentType(), buf.Bytes())
}
