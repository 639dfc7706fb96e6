package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/apperr"
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

// RegisterRoutes: чтение на public (OptionalAuth), запись на authed (JWTAuth).
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/recipes", h.List)
	public.GET("/recipes/:id", h.Get)

	authed.POST("/recipes", h.Create)
	authed.PATCH("/recipes/:id", h.Update)
	authed.DELETE("/recipes/:id", h.Delete)
}

// List godoc
// @Summary Список рецептов
// @Description Фильтры: tags (несколько), author, is_favorited, is_in_shopping_cart. Новые первыми.
// @Tags Recipes
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы"
// @Param tags query []string false "Слаги тегов (ИЛИ)"
// @Param author query int false "ID автора"
// @Param is_favorited query int false "1: только избранное"
// @Param is_in_shopping_cart query int false "1: только из корзины"
// @Success 200 {object} pagination.Page[RecipeView]
// @Router /recipes [get]
func (h *Handler) List(c *gin.Context) {
	f, err := ParseFilter(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	p := pagination.FromQuery(c, h.pageSize, h.maxPageSize)

	page, err := h.service.List(c.Request.Context(), CallerFrom(c), f, p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page.WithLinks(c.Request.URL, p))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	view, err := h.service.Get(c.Request.Context(), CallerFrom(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create godoc
// @Summary Создать рецепт
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RecipeRequest true "Рецепт"
// @Success 201 {object} RecipeView
// @Failure 400 {object} map[string]any "Ошибка валидации"
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.Invalid("body", "%s", err.Error()))
		return
	}
	view, err := h.service.Create(c.Request.Context(), CallerFrom(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.Invalid("body", "%s", err.Error()))
		return
	}
	view, err := h.service.Update(c.Request.Context(), CallerFrom(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), CallerFrom(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
