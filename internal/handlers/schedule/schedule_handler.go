// internal/handlers/schedule/schedule_handler.go
package schedule

import (
	"net/http"

	"gymease-service/internal/domain/schedule"
	"gymease-service/internal/middleware"
	"gymease-service/internal/pkg/civil"
	xerrors "gymease-service/internal/pkg/errors"
	"gymease-service/internal/pkg/response"
	memberService "gymease-service/internal/service/member"
	service "gymease-service/internal/service/schedule"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	memberService   *memberService.MemberService
}

func NewScheduleHandler(scheduleService *service.ScheduleService, memberService *memberService.MemberService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		memberService:   memberService,
	}
}

// ========== Trainer Slots ==========

// ListSlots filters with ?personal_trainer= and ?hari=.
func (h *ScheduleHandler) ListSlots(c *gin.Context) {
	var (
		q struct {
			TrainerID int64  `form:"personal_trainer"`
			Day       string `form:"hari"`
		}
		p response.Pagination
	)
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.scheduleService.ListSlots(c.Request.Context(), q.TrainerID, q.Day)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, p)
}

// AvailableSlots lists the free slots of a trainer on ?date=YYYY-MM-DD.
func (h *ScheduleHandler) AvailableSlots(c *gin.Context) {
	var q schedule.AvailableSlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	slots, err := h.scheduleService.AvailableSlots(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slots)
}

func (h *ScheduleHandler) GetSlot(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.scheduleService.GetSlot(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slot)
}

func (h *ScheduleHandler) CreateSlot(c *gin.Context) {
	var req schedule.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	slot, err := h.scheduleService.CreateSlot(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, slot)
}

func (h *ScheduleHandler) UpdateSlot(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	var req schedule.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	slot, err := h.scheduleService.UpdateSlot(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slot)
}

func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteSlot(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}

// ========== PT Sessions ==========

// ListSessions shows members their own sessions; staff may filter by any member.
func (h *ScheduleHandler) ListSessions(c *gin.Context) {
	var (
		f schedule.SessionFilter
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
	if raw := c.Query("tanggal_session"); raw != "" {
		d, err := civil.ParseDate(raw)
		if err != nil {
			response.Fields(c, xerrors.FieldErrors{"tanggal_session": {"Date has wrong format. Use YYYY-MM-DD."}})
			return
		}
		f.Date = &d
	}

	if !middleware.IsStaff(c) {
		memberID, ok := h.callerMember(c)
		if !ok {
			return
		}
		f.MemberID = memberID
	}

	items, err := h.scheduleService.ListSessions(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, p)
}

// TodaySessions lists today's sessions, scoped to the caller for members.
func (h *ScheduleHandler) TodaySessions(c *gin.Context) {
	var memberID int64
	if !middleware.IsStaff(c) {
		id, ok := h.callerMember(c)
		if !ok {
			return
		}
		memberID = id
	}

	items, err := h.scheduleService.TodaySessions(c.Request.Context(), memberID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// BookSession books for the calling member; staff name the member in the body.
func (h *ScheduleHandler) BookSession(c *gin.Context) {
	var req schedule.BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	memberID := req.MemberID
	if !middleware.IsStaff(c) {
		id, ok := h.callerMember(c)
		if !ok {
			return
		}
		memberID = id
	} else if memberID == 0 {
		response.Fields(c, xerrors.FieldErrors{"member": {"This field is required."}})
		return
	}

	session, err := h.scheduleService.BookSession(c.Request.Context(), memberID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, session)
}

func (h *ScheduleHandler) GetSession(c *gin.Context) {
	session, ok := h.visibleSession(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, session)
}

// CompleteSession is staff only.
func (h *ScheduleHandler) CompleteSession(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return
	}

	var req schedule.CompleteSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	session, err := h.scheduleService.CompleteSession(c.Request.Context(), id, req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// CancelSession lets a member cancel their own booking; staff may cancel any.
func (h *ScheduleHandler) CancelSession(c *gin.Context) {
	session, ok := h.visibleSession(c)
	if !ok {
		return
	}

	cancelled, err := h.scheduleService.CancelSession(c.Request.Context(), session.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cancelled)
}

// ========== Helpers ==========

// callerMember resolves the member record of the authenticated user.
func (h *ScheduleHandler) callerMember(c *gin.Context) (int64, bool) {
	userID, _ := middleware.GetUserID(c)
	m, err := h.memberService.MemberForUser(c.Request.Context(), userID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.Forbidden(c, "Only members can do this.")
			return 0, false
		}
		response.FromError(c, err)
		return 0, false
	}
	return m.ID, true
}

// visibleSession loads the :id session; members get 404 for sessions that are not theirs.
func (h *ScheduleHandler) visibleSession(c *gin.Context) (*schedule.Session, bool) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		return nil, false
	}

	session, err := h.scheduleService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	if middleware.IsStaff(c) {
		return session, true
	}

	memberID, ok := h.callerMember(c)
	if !ok {
		return nil, false
	}
	if session.MemberID != memberID {
		response.NotFound(c)
		return nil, false
	}
	return session, true
}
