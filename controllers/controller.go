package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"conduit/config"
	"conduit/middleware"
	"conduit/models"
	"conduit/repository"
)

// getUserID extracts the authenticated actor from the request context. The
// actor id always comes from the resolved token, never from client input.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// parsePagination falls back to page 1 and the configured default page size
// whenever a parameter is absent, unparsable, or out of range.
func parsePagination(pageStr, sizeStr string) (int, int) {
	cfg := config.Get()
	page := 1
	pageSize := cfg.DefaultPageSize
	if pageSize < 1 {
		pageSize = repository.DefaultPageSize
	}
	if p, err := strconv.Atoi(strings.TrimSpace(pageStr)); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(strings.TrimSpace(sizeStr)); err == nil && s > 0 && s <= cfg.MaxPageSize {
		pageSize = s
	}
	return page, pageSize
}

// parseID parses a numeric path parameter.
func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func publicUser(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"bio":        user.Bio,
		"image":      user.Image,
		"created_at": user.CreatedAt,
	}
}
