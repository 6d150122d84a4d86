package handler

import (
	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type ZoneHandler struct {
	zoneService service.ZoneService
}

func NewZoneHandler(zoneService service.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

// includeInactive is honoured for staff only.
func includeInactive(c *gin.Context) bool {
	user := currentUser(c)
	return user != nil && user.IsStaff && c.Query("all") == "true"
}

func (h *ZoneHandler) List(c *gin.Context) {
	zones, err := h.zoneService.List(c.Request.Context(), includeInactive(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewZones(zones))
}

func (h *ZoneHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	zone, err := h.zoneService.Get(c.Request.Context(), id, user != nil && user.IsStaff)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewZone(zone))
}

func (h *ZoneHandler) Create(c *gin.Context) {
	var req service.ZoneInput
	if !bindJSON(c, &req) {
		return
	}
	zone, err := h.zoneService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewZone(zone))
}

func (h *ZoneHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ZoneInput
	if !bindJSON(c, &req) {
		return
	}
	zone, err := h.zoneService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewZone(zone))
}

func (h *ZoneHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.zoneService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
