package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/utils"
)

type Handler struct {
	service     *Service
	pageSize    int
	maxPageSize int
}

func NewHandler(service *Service, pageSize, maxPageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize, maxPageSize: maxPageSize}
}

func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/users/:id", h.Profile)

	authed.GET("/users/me", h.Me)
	authed.GET("/users/subscriptions", h.List)
	authed.POST("/users/:id/subscribe", h.Subscribe)
	authed.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// List godoc
// @Summary Мои подписки
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Param recipes_limit query int false "Сколько рецептов показать у каждого автора"
// @Success 200 {object} pagination.Page[SubscriptionView]
// @Router /users/subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	recipesLimit, err := utils.QueryInt(c, "recipes_limit", 0)
	if err != nil {
		response.Fail(c, err)
		return
	}
	p := pagination.FromQuery(c, h.pageSize, h.maxPageSize)

	page, err := h.service.ListSubscriptions(c.Request.Context(), utils.UserID(c), p, recipesLimit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page.WithLinks(c.Request.URL, p))
}

func (h *Handler) Subscribe(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	recipesLimit, err := utils.QueryInt(c, "recipes_limit", 0)
	if err != nil {
		response.Fail(c, err)
		return
	}
	view, err := h.service.Subscribe(c.Request.Context(), utils.UserID(c), id, recipesLimit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), utils.UserID(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Profile(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	view, err := h.service.Profile(c.Request.Context(), utils.UserID(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Me(c *gin.Context) {
	uid := utils.UserID(c)
	view, err := h.service.Profile(c.Request.Context(), uid, uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
