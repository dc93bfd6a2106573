package handlers

import (
	"github.com/gin-gonic/gin"

	"suratdesa/internal/domain/penduduk"
	"suratdesa/internal/infrastructure/http/v1/dto"
)

// PendudukHandler handles the resident registry endpoints. The registry is
// read-only reference data over HTTP; records are maintained by the seed
// tooling, operators only look residents up by NIK when filling letters.
type PendudukHandler struct {
	*BaseHandler
	service *penduduk.Service
}

// NewPendudukHandler creates a new penduduk handler.
func NewPendudukHandler(base *BaseHandler, service *penduduk.Service) *PendudukHandler {
	return &PendudukHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetByNIK handles GET /penduduk/:nik
func (h *PendudukHandler) GetByNIK(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.service.GetByNIK(ctx, c.Param("nik"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPenduduk(p))
}

// List handles GET /penduduk
func (h *PendudukHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PendudukListRequest
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
		Items:  dto.FromPendudukList(items),
		Count:  len(items),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// RegisterRoutes registers penduduk routes.
func (h *PendudukHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/penduduk")
	group.GET("", h.List)
	group.GET("/:nik", h.GetByNIK)
}
