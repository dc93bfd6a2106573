package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suratdesa/internal/domain/auth"
	"suratdesa/internal/domain/numbering"
	"suratdesa/internal/infrastructure/http/v1/dto"
	"suratdesa/internal/infrastructure/http/v1/middleware"
)

// NumberingHandler exposes the official number reservation endpoints.
//
// A reservation is issued on preview (POST) and becomes final on confirmation
// (PATCH .../confirm). Cancellation (DELETE) releases the reservation but the
// sequence value stays burned; it is never handed out again.
type NumberingHandler struct {
	*BaseHandler
	service *numbering.Service
}

// NewNumberingHandler creates a new numbering handler.
func NewNumberingHandler(base *BaseHandler, service *numbering.Service) *NumberingHandler {
	return &NumberingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Reserve handles POST /surat-number
func (h *NumberingHandler) Reserve(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReserveNumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.RequestNumber(ctx, req.LetterType, req.ManualSeq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReservation(res))
}

// Get handles GET /surat-number/:id
func (h *NumberingHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	reservationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetReservation(ctx, reservationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReservation(res))
}

// List handles GET /surat-number
func (h *NumberingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReservationListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := req.ToFilter()
	items, err := h.service.ListReservations(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:  dto.FromReservations(items),
		Count:  len(items),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Confirm handles PATCH /surat-number/:id/confirm
func (h *NumberingHandler) Confirm(c *gin.Context) {
	ctx := c.Request.Context()

	reservationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.ConfirmNumber(ctx, reservationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReservation(res))
}

// Cancel handles DELETE /surat-number/:id
func (h *NumberingHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	reservationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.CancelNumber(ctx, reservationID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers numbering routes. Mutating endpoints require the
// operator role; admins pass any role check.
func (h *NumberingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/surat-number")
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	desk := group.Group("", middleware.RequireRole(auth.RoleOperator))
	desk.POST("", h.Reserve)
	desk.PATCH("/:id/confirm", h.Confirm)
	desk.DELETE("/:id", h.Cancel)
}
