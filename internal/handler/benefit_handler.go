package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type BenefitHandler struct {
	benefitService service.BenefitService
	media          dto.Media
	now            func() time.Time
}

func NewBenefitHandler(benefitService service.BenefitService, media dto.Media) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService, media: media, now: time.Now}
}

type UseBenefitRequest struct {
	Notes string `json:"notes"`
}

func (h *BenefitHandler) ListCategories(c *gin.Context) {
	categories, err := h.benefitService.ListCategories(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefitCategories(categories))
}

func (h *BenefitHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	category, err := h.benefitService.GetCategory(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefitCategory(category))
}

func (h *BenefitHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.benefitService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewBenefitCategory(category))
}

func (h *BenefitHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.benefitService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefitCategory(category))
}

func (h *BenefitHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.benefitService.DeleteCategory(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *BenefitHandler) List(c *gin.Context) {
	categoryID, ok := optionalUint(c, "category")
	if !ok {
		return
	}
	featured, ok := optionalBool(c, "is_featured")
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	views, err := h.benefitService.List(c.Request.Context(), currentUser(c), service.BenefitQuery{
		CategoryID: categoryID,
		Featured:   featured,
		Page:       page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefits(views, h.now(), mediaFor(c, h.media)))
}

func (h *BenefitHandler) Featured(c *gin.Context) {
	views, err := h.benefitService.Featured(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefits(views, h.now(), mediaFor(c, h.media)))
}

func (h *BenefitHandler) ByCategory(c *gin.Context) {
	groups, err := h.benefitService.ByCategory(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewCategoryGroups(groups, h.now(), mediaFor(c, h.media)))
}

func (h *BenefitHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.benefitService.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefit(view, h.now(), mediaFor(c, h.media)))
}

func (h *BenefitHandler) Create(c *gin.Context) {
	var req service.BenefitInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.benefitService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewBenefit(view, h.now(), mediaFor(c, h.media)))
}

func (h *BenefitHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.BenefitInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.benefitService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefit(view, h.now(), mediaFor(c, h.media)))
}

func (h *BenefitHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.benefitService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *BenefitHandler) Use(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UseBenefitRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	usage, err := h.benefitService.Use(c.Request.Context(), currentUser(c), id, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewBenefitUsage(usage))
}

func (h *BenefitHandler) ListUsages(c *gin.Context) {
	riderID, ok := optionalUint(c, "rider")
	if !ok {
		return
	}
	benefitID, ok := optionalUint(c, "benefit")
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	usages, err := h.benefitService.ListUsages(c.Request.Context(), currentUser(c), service.UsageQuery{
		RiderID:   riderID,
		BenefitID: benefitID,
		Page:      page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefitUsages(usages))
}

func (h *BenefitHandler) GetUsage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	usage, err := h.benefitService.GetUsage(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewBenefitUsage(usage))
}
