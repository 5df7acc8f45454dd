// internal/handlers/member/member_handler.go
package member

import (
	"net/http"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/pkg/response"
	service "gymease-service/internal/service/member"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService *service.MemberService
}

func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ListMembers supports ?search= over nama, id_member and alamat, and ?status=active|inactive.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var (
		f member.ListFilters
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
	p.Normalize()

	items, total, err := h.memberService.ListMembers(c.Request.Context(), f, p.PageSize, p.Offset())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.WritePage(c, items, total, p)
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req member.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	m, err := h.memberService.CreateMember(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// UpdateMember serves both PUT and PATCH; absent fields are left unchanged.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	var req member.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	m, err := h.memberService.UpdateMember(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}

func (h *MemberHandler) Statistics(c *gin.Context) {
	stats, err := h.memberService.Statistics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *MemberHandler) MembershipStatus(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.memberService.MembershipStatus(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}

func (h *MemberHandler) MembershipHistory(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.memberService.History(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}
