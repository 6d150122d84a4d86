package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
	media       dto.Media
}

func NewAuthHandler(authService service.AuthService, media dto.Media) *AuthHandler {
	return &AuthHandler{authService: authService, media: media}
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, dto.NewLogin(res))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if req.Refresh == "" {
		response.BadRequest(c, "Refresh token is required")
		return
	}

	access, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{"access": access})
}

// Logout revokes the refresh token. A missing token is not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.Refresh); err != nil {
		if !errors.Is(err, service.ErrRefreshTokenInvalid) {
			_ = c.Error(err)
		}
		response.BadRequest(c, "Error logging out")
		return
	}

	response.Detail(c, http.StatusOK, "Successfully logged out")
}

func (h *AuthHandler) Profile(c *gin.Context) {
	profile, err := h.authService.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewProfile(profile, mediaFor(c, h.media)))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), currentUser(c), req); err != nil {
		writeError(c, err)
		return
	}

	response.Detail(c, http.StatusOK, "Password changed successfully")
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.NewProfile(profile, mediaFor(c, h.media)))
}
