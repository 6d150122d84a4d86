package handler

import (
	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type ApplicationHandler struct {
	membershipService service.MembershipService
	media             dto.Media
}

func NewApplicationHandler(membershipService service.MembershipService, media dto.Media) *ApplicationHandler {
	return &ApplicationHandler{membershipService: membershipService, media: media}
}

// Submit is the public membership form. It creates the account, the
// rider profile and the application together.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req service.ApplicationInput
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.membershipService.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewMembershipApplication(app, mediaFor(c, h.media)))
}

func (h *ApplicationHandler) List(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	status := model.ApplicationStatus(c.Query("status"))

	apps, err := h.membershipService.List(c.Request.Context(), currentUser(c), status, page)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewMembershipApplications(apps, mediaFor(c, h.media)))
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	app, err := h.membershipService.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewMembershipApplication(app, mediaFor(c, h.media)))
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ApplicationPatch
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.membershipService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewMembershipApplication(app, mediaFor(c, h.media)))
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.membershipService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ApplicationHandler) Approve(c *gin.Context) {
	h.review(c, model.ApplicationStatusApproved)
}

func (h *ApplicationHandler) Reject(c *gin.Context) {
	h.review(c, model.ApplicationStatusRejected)
}

func (h *ApplicationHandler) review(c *gin.Context, decision model.ApplicationStatus) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	app, err := h.membershipService.Review(c.Request.Context(), id, decision)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewMembershipApplication(app, mediaFor(c, h.media)))
}
