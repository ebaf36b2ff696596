package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit/apperror"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// FromError maps an operation error onto HTTP status and body. The numeric
// code groups by class; internal errors never leak store details to clients.
func FromError(ctx *gin.Context, err error) {
	var appErr *apperror.AppError
	msg := "internal error"
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case errors.Is(err, apperror.ErrUnauthenticated):
		Error(ctx, http.StatusUnauthorized, 40100, msg)
	case errors.Is(err, apperror.ErrInvalidInput):
		Error(ctx, http.StatusBadRequest, 40000, msg)
	case errors.Is(err, apperror.ErrNotFound):
		Error(ctx, http.StatusNotFound, 40400, msg)
	case errors.Is(err, apperror.ErrForbidden):
		Error(ctx, http.StatusForbidden, 40300, msg)
	case errors.Is(err, apperror.ErrConflict):
		Error(ctx, http.StatusConflict, 40900, msg)
	default:
		if Sugar != nil {
			Sugar.Errorf("internal error: %v", err)
		}
		Error(ctx, http.StatusInternalServerError, 50000, "internal error")
	}
}
