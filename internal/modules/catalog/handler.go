package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes вешает публичное чтение справочников на public,
// создание: на admin (группа уже с JWTAuth + AdminOnly).
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/tags", h.ListTags)
	public.GET("/tags/:id", h.GetTag)
	public.GET("/ingredients", h.ListIngredients)
	public.GET("/ingredients/:id", h.GetIngredient)

	admin.POST("/tags", h.CreateTag)
	admin.POST("/ingredients", h.CreateIngredient)
}

// ListTags godoc
// @Summary Список тегов
// @Tags Catalog
// @Produce json
// @Success 200 {array} TagResponse
// @Router /tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToTagResponses(tags))
}

func (h *Handler) GetTag(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToTagResponse(*tag))
}

func (h *Handler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.Invalid("body", "%s", err.Error()))
		return
	}
	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ToTagResponse(*tag))
}

// ListIngredients godoc
// @Summary Поиск ингредиентов
// @Description Поиск по вхождению подстроки в название, без учёта регистра
// @Tags Catalog
// @Produce json
// @Param name query string false "Часть названия"
// @Success 200 {array} IngredientResponse
// @Router /ingredients [get]
func (h *Handler) ListIngredients(c *gin.Context) {
	items, err := h.service.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToIngredientResponses(items))
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	ing, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToIngredientResponse(*ing))
}

func (h *Handler) CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.Invalid("body", "%s", err.Error()))
		return
	}
	ing, err := h.service.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ToIngredientResponse(*ing))
}
