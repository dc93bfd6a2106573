package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suratdesa/internal/domain/auth"
	"suratdesa/internal/domain/surat"
	"suratdesa/internal/infrastructure/http/v1/dto"
	"suratdesa/internal/infrastructure/http/v1/middleware"
)

// SuratHandler handles the letter desk endpoints. Creating a letter reserves
// its official number; printing makes the number final.
type SuratHandler struct {
	*BaseHandler
	service *surat.Service
}

// NewSuratHandler creates a new surat handler.
func NewSuratHandler(base *BaseHandler, service *surat.Service) *SuratHandler {
	return &SuratHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /surat
func (h *SuratHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSuratRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Create(ctx, req.ToEntity(), req.ManualSeq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSurat(entry))
}

// Get handles GET /surat/:id
func (h *SuratHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	suratID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.GetByID(ctx, suratID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSurat(entry))
}

// List handles GET /surat
func (h *SuratHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SuratListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := req.ToFilter()
	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:  dto.FromSuratList(items),
		Count:  len(items),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Update handles PUT /surat/:id
func (h *SuratHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	suratID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSuratRequest
	if !h.BindJSON(c, &req) {
		return
	}

	current, err := h.service.GetByID(ctx, suratID)
	if err != nil {
		h.Error(c, err)
		return
	}

	entry := &surat.Surat{
		ID:         current.ID,
		LetterType: current.LetterType,
		PemohonNIK: current.PemohonNIK,
		Keperluan:  req.Keperluan,
		Payload:    req.Payload,
	}
	if req.PemohonNIK != "" {
		entry.PemohonNIK = req.PemohonNIK
	}

	updated, err := h.service.Update(ctx, entry)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSurat(updated))
}

// Print handles POST /surat/:id/print
func (h *SuratHandler) Print(c *gin.Context) {
	ctx := c.Request.Context()

	suratID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.Print(ctx, suratID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSurat(entry))
}

// Cancel handles DELETE /surat/:id
func (h *SuratHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	suratID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(ctx, suratID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers surat routes. Mutating endpoints require the
// operator role; admins pass any role check.
func (h *SuratHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/surat")
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	desk := group.Group("", middleware.RequireRole(auth.RoleOperator))
	desk.POST("", h.Create)
	desk.PUT("/:id", h.Update)
	desk.POST("/:id/print", h.Print)
	desk.DELETE("/:id", h.Cancel)
}
