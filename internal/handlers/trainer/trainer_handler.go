// internal/handlers/trainer/trainer_handler.go
package trainer

import (
	"net/http"

	"gymease-service/internal/domain/trainer"
	"gymease-service/internal/middleware"
	"gymease-service/internal/pkg/response"
	service "gymease-service/internal/service/trainer"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService *service.TrainerService
}

func NewTrainerHandler(trainerService *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// ListTrainers supports ?search=; staff may add ?include_inactive=true.
func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	var p response.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	includeInactive := middleware.IsStaff(c) && response.BoolQuery(c, "include_inactive")
	items, err := h.trainerService.ListTrainers(c.Request.Context(), c.Query("search"), includeInactive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, p)
}

func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.trainerService.GetTrainer(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *TrainerHandler) CreateTrainer(c *gin.Context) {
	var req trainer.CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.trainerService.CreateTrainer(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *TrainerHandler) UpdateTrainer(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	var req trainer.UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.trainerService.UpdateTrainer(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *TrainerHandler) DeleteTrainer(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.trainerService.DeleteTrainer(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}
