package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Bodies mirror the resource directly; errors are {"detail": ...} for
// request/auth/permission problems and {"error": ...} for rule violations.

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Detail writes {"detail": message} with the given status.
func Detail(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"detail": message})
}

// Error writes {"error": message} with the given status.
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}

func BadRequest(c *gin.Context, message string) {
	Detail(c, http.StatusBadRequest, message)
}

// Conflict reports a violated business rule (event full, limit reached, ...).
// These keep the 400 status the clients already handle.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Detail(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Detail(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Detail(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Detail(c, http.StatusInternalServerError, message)
}
