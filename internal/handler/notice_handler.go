package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type NoticeHandler struct {
	noticeService service.NoticeService
	now           func() time.Time
}

func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService, now: time.Now}
}

func (h *NoticeHandler) List(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	priority := model.NoticePriority(c.Query("priority"))
	notices, err := h.noticeService.List(c.Request.Context(), currentUser(c), priority, page)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewNotices(notices, h.now()))
}

func (h *NoticeHandler) Active(c *gin.Context) {
	notices, err := h.noticeService.Active(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewNotices(notices, h.now()))
}

func (h *NoticeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	notice, err := h.noticeService.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewNotice(notice, h.now()))
}

func (h *NoticeHandler) Create(c *gin.Context) {
	var req service.NoticeInput
	if !bindJSON(c, &req) {
		return
	}
	notice, err := h.noticeService.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewNotice(notice, h.now()))
}

func (h *NoticeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.NoticeInput
	if !bindJSON(c, &req) {
		return
	}
	notice, err := h.noticeService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewNotice(notice, h.now()))
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.noticeService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
