package handler

import (
	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type RiderHandler struct {
	riderService service.RiderService
	media        dto.Media
}

func NewRiderHandler(riderService service.RiderService, media dto.Media) *RiderHandler {
	return &RiderHandler{riderService: riderService, media: media}
}

func (h *RiderHandler) List(c *gin.Context) {
	zoneID, ok := optionalUint(c, "zone")
	if !ok {
		return
	}
	featured, ok := optionalBool(c, "featured")
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}

	riders, err := h.riderService.List(c.Request.Context(), repository.RiderFilter{
		ZoneID:   zoneID,
		Featured: featured,
		Page:     page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewRiders(riders, mediaFor(c, h.media)))
}

func (h *RiderHandler) Featured(c *gin.Context) {
	riders, err := h.riderService.Featured(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewRiders(riders, mediaFor(c, h.media)))
}

func (h *RiderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rider, err := h.riderService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewRider(rider, mediaFor(c, h.media)))
}

func (h *RiderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.RiderPatch
	if !bindJSON(c, &req) {
		return
	}
	rider, err := h.riderService.Update(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewRider(rider, mediaFor(c, h.media)))
}

func (h *RiderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.riderService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
