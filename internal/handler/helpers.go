package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/handler/middleware"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/response"
)

const (
	msgNotFound  = "Not found."
	msgForbidden = "You do not have permission to perform this action."
	msgBadBody   = "Invalid request body"
	maxPageSize  = 200
)

func currentUser(c *gin.Context) *model.User {
	return middleware.CurrentUser(c)
}

// parseID reads a numeric path parameter. A malformed ID answers 404,
// the same as a missing row.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, msgNotFound)
		return 0, false
	}
	return uint(id), true
}

// optionalUint reads a numeric query parameter. ok is false after a 400
// has been written.
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid value for "+name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, "Invalid value for "+name)
		return nil, false
	}
	return &v, true
}

// pageFrom reads ?limit= and ?offset=. Without limit the full list is
// returned, as the clients expect unpaginated arrays.
func pageFrom(c *gin.Context) (repository.Page, bool) {
	var p repository.Page
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "Invalid value for limit")
			return p, false
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		p.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "Invalid value for offset")
			return p, false
		}
		p.Offset = n
	}
	return p, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, msgBadBody+": "+err.Error())
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, dst)
}

func mediaFor(c *gin.Context, m dto.Media) dto.Media {
	return m.ForRequest(c.Request)
}

// writeError maps service errors to responses. Business-rule failures use
// {"error": ...}; request, auth and lookup failures use {"detail": ...}.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *service.ValidationError
	var accErr *service.AccountCreationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 && verr.Message == "" {
			body := make(gin.H, len(verr.Fields))
			for field, msg := range verr.Fields {
				body[field] = []string{msg}
			}
			c.JSON(http.StatusBadRequest, body)
			return
		}
		response.BadRequest(c, verr.Error())
	case errors.As(err, &accErr):
		response.Conflict(c, accErr.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgNotFound)
	case errors.Is(err, service.ErrRiderNotFound):
		response.NotFound(c, "Rider profile not found")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, msgForbidden)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrRefreshTokenInvalid):
		response.Unauthorized(c, "Token is invalid or expired")
	case errors.Is(err, service.ErrPhoneRegistered):
		response.Conflict(c, "A user with this phone number already exists")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, "Only pending applications can be reviewed")
	case errors.Is(err, service.ErrEventNotOpen):
		response.Conflict(c, "Event is not open for registration")
	case errors.Is(err, service.ErrEventFull):
		response.Conflict(c, "Event is full")
	case errors.Is(err, service.ErrAlreadyJoined):
		response.Conflict(c, "Already joined this event")
	case errors.Is(err, service.ErrNotJoined):
		response.Conflict(c, "Not joined this event")
	case errors.Is(err, service.ErrUsageLimitReached):
		response.Conflict(c, "Usage limit reached for this benefit")
	case errors.Is(err, service.ErrBenefitExpired):
		response.Conflict(c, "This benefit has expired")
	case errors.Is(err, service.ErrBenefitNotYetValid):
		response.Conflict(c, "This benefit is not yet valid")
	case errors.Is(err, service.ErrBenefitInactive):
		response.Conflict(c, "This benefit is not active")
	default:
		response.InternalError(c, "A server error occurred.")
	}
}

// viewerRiderID returns the caller's rider ID for per-viewer flags such as
// is_joined, or 0 for anonymous callers and accounts without a rider.
func viewerRiderID(c *gin.Context, riders service.RiderService) uint {
	user := currentUser(c)
	if user == nil {
		return 0
	}
	rider, err := riders.ForUser(c.Request.Context(), user)
	if err != nil {
		return 0
	}
	return rider.ID
}
