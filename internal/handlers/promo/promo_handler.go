// internal/handlers/promo/promo_handler.go
package promo

import (
	"net/http"

	"gymease-service/internal/domain/promo"
	"gymease-service/internal/pkg/response"
	service "gymease-service/internal/service/promo"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	promoService *service.PromoService
}

func NewPromoHandler(promoService *service.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoService}
}

// ========== Public Endpoints ==========

// ListPromos filters with ?search= and ?status=all|active|scheduled|expired|inactive.
func (h *PromoHandler) ListPromos(c *gin.Context) {
	var (
		f promo.ListFilters
		p response.Pagination
	)
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.promoService.ListPromos(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, p)
}

// ActivePromos lists promos usable today, unpaginated.
func (h *PromoHandler) ActivePromos(c *gin.Context) {
	items, err := h.promoService.ActivePromos(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *PromoHandler) Statistics(c *gin.Context) {
	stats, err := h.promoService.Statistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *PromoHandler) GetPromo(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	v, err := h.promoService.GetPromo(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// Preview returns the price breakdown of a promo against its package.
func (h *PromoHandler) Preview(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	preview, err := h.promoService.Preview(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// ========== Staff Endpoints ==========

func (h *PromoHandler) CreatePromo(c *gin.Context) {
	var req promo.CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.promoService.CreatePromo(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

func (h *PromoHandler) UpdatePromo(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	var req promo.UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.promoService.UpdatePromo(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// TogglePromo flips is_active.
func (h *PromoHandler) TogglePromo(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	v, err := h.promoService.TogglePromo(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *PromoHandler) DeletePromo(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.promoService.DeletePromo(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}
