package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"conduit/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in
	// the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUserNameKey stores the user's name inside the Gin context.
	ContextUserNameKey = "user_name"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, errCode, errMsg := resolveToken(ctx)
		if claims == nil {
			utils.Error(ctx, http.StatusUnauthorized, errCode, errMsg)
			ctx.Abort()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUserNameKey, claims.Name)
		ctx.Next()
	}
}

// AuthOptional resolves the viewer identity when a valid token is present and
// lets the request through anonymously otherwise. Read paths use this to
// compute viewer-relative flags.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, _, _ := resolveToken(ctx); claims != nil {
			ctx.Set(ContextUserIDKey, claims.UserID)
			ctx.Set(ContextUserNameKey, claims.Name)
		}
		ctx.Next()
	}
}

func resolveToken(ctx *gin.Context) (*utils.Claims, int, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return nil, 40101, "authorization header missing"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, 40102, "invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, 40103, "empty bearer token"
	}

	if utils.IsTokenBlacklisted(tokenString) {
		return nil, 40104, "token revoked"
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return nil, 40105, "invalid token"
	}
	return claims, 0, ""
}
