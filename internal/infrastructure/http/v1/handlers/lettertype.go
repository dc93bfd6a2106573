package handlers

import (
	"github.com/gin-gonic/gin"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/domain/lettertype"
	"suratdesa/internal/infrastructure/http/v1/dto"
)

// LetterTypeHandler exposes the configured letter type catalog.
type LetterTypeHandler struct {
	*BaseHandler
	registry *lettertype.Registry
}

// NewLetterTypeHandler creates a new letter type handler.
func NewLetterTypeHandler(base *BaseHandler, registry *lettertype.Registry) *LetterTypeHandler {
	return &LetterTypeHandler{
		BaseHandler: base,
		registry:    registry,
	}
}

// List handles GET /letter-types
func (h *LetterTypeHandler) List(c *gin.Context) {
	items := dto.FromLetterTypes(h.registry.All())
	h.OK(c, dto.ListResponse{
		Items: items,
		Count: len(items),
	})
}

// Get handles GET /letter-types/:code
func (h *LetterTypeHandler) Get(c *gin.Context) {
	code := c.Param("code")
	lt, ok := h.registry.Get(code)
	if !ok {
		h.Error(c, apperror.NewNotFound("letter type", code))
		return
	}
	h.OK(c, dto.FromLetterType(lt))
}

// RegisterRoutes registers letter type routes.
func (h *LetterTypeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/letter-types")
	group.GET("", h.List)
	group.GET("/:code", h.Get)
}
