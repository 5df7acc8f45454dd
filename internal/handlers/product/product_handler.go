// internal/handlers/product/product_handler.go
package product

import (
	"net/http"

	"gymease-service/internal/domain/product"
	"gymease-service/internal/middleware"
	"gymease-service/internal/pkg/response"
	service "gymease-service/internal/service/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListPackages returns active packages; staff may add ?include_inactive=true.
func (h *ProductHandler) ListPackages(c *gin.Context) {
	var p response.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	includeInactive := middleware.IsStaff(c) && response.BoolQuery(c, "include_inactive")
	items, err := h.productService.ListPackages(c.Request.Context(), includeInactive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, p)
}

func (h *ProductHandler) GetPackage(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	pkg, err := h.productService.GetPackage(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pkg)
}

func (h *ProductHandler) CreatePackage(c *gin.Context) {
	var req product.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	pkg, err := h.productService.CreatePackage(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pkg)
}

func (h *ProductHandler) UpdatePackage(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	var req product.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	pkg, err := h.productService.UpdatePackage(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pkg)
}

func (h *ProductHandler) DeletePackage(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeletePackage(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}
