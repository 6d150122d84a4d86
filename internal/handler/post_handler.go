package handler

import (
	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type PostHandler struct {
	postService service.PostService
	media       dto.Media
}

func NewPostHandler(postService service.PostService, media dto.Media) *PostHandler {
	return &PostHandler{postService: postService, media: media}
}

func (h *PostHandler) viewer(c *gin.Context) uint {
	return h.postService.ViewerRiderID(c.Request.Context(), currentUser(c))
}

func (h *PostHandler) List(c *gin.Context) {
	authorID, ok := optionalUint(c, "author")
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	posts, err := h.postService.List(c.Request.Context(), repository.PostFilter{AuthorID: authorID, Page: page})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewPosts(posts, h.viewer(c), mediaFor(c, h.media)))
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewPost(post, h.viewer(c), mediaFor(c, h.media)))
}

func (h *PostHandler) Create(c *gin.Context) {
	var req service.PostInput
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, dto.NewPost(post, h.viewer(c), mediaFor(c, h.media)))
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.PostInput
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Update(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewPost(post, h.viewer(c), mediaFor(c, h.media)))
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.postService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.postService.ToggleLike(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, res)
}
