package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type EventHandler struct {
	eventService service.EventService
	riderService service.RiderService
	media        dto.Media
	now          func() time.Time
}

func NewEventHandler(eventService service.EventService, riderService service.RiderService, media dto.Media) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		riderService: riderService,
		media:        media,
		now:          time.Now,
	}
}

func (h *EventHandler) render(c *gin.Context, list []model.RideEvent) {
	response.OK(c, dto.NewEvents(list, h.now(), viewerRiderID(c, h.riderService), mediaFor(c, h.media)))
}

func (h *EventHandler) renderOne(c *gin.Context, status int, event *model.RideEvent) {
	c.JSON(status, dto.NewEvent(event, h.now(), viewerRiderID(c, h.riderService), mediaFor(c, h.media)))
}

func (h *EventHandler) List(c *gin.Context) {
	zoneID, ok := optionalUint(c, "zone")
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	status := model.EventStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.BadRequest(c, "Invalid value for status")
		return
	}

	list, err := h.eventService.List(c.Request.Context(), repository.EventFilter{
		Status: status,
		ZoneID: zoneID,
		Page:   page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	h.render(c, list)
}

func (h *EventHandler) Upcoming(c *gin.Context) {
	list, err := h.eventService.Upcoming(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	h.render(c, list)
}

func (h *EventHandler) Past(c *gin.Context) {
	list, err := h.eventService.Past(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	h.render(c, list)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.renderOne(c, http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventInput
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.renderOne(c, http.StatusCreated, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.EventInput
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.renderOne(c, http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *EventHandler) Join(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.eventService.Join(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Successfully joined the event", "participant_count": count})
}

func (h *EventHandler) Leave(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.eventService.Leave(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Successfully left the event", "participant_count": count})
}

func (h *EventHandler) ListPhotos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	photos, err := h.eventService.ListPhotos(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewEventPhotos(photos, mediaFor(c, h.media)))
}

func (h *EventHandler) AddPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.PhotoInput
	if !bindJSON(c, &req) {
		return
	}
	photo, err := h.eventService.AddPhoto(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewEventPhoto(photo, mediaFor(c, h.media)))
}

func (h *EventHandler) DeletePhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	photoID, ok := parseID(c, "photoID")
	if !ok {
		return
	}
	if err := h.eventService.DeletePhoto(c.Request.Context(), currentUser(c), id, photoID); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
