package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"conduit/models"
	"conduit/repository"
	"conduit/utils"
)

const tokenDuration = 24 * time.Hour

// AuthController handles registration, login, and account settings.
type AuthController struct {
	users repository.UserRepository
}

// NewAuthController creates an AuthController.
func NewAuthController(users repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Register handles account creation with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email,max=200"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	name := utils.StripHTML(strings.TrimSpace(req.Name))
	if l := len([]rune(name)); l < 2 || l > 50 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "name must be 2-50 characters")
		return
	}
	password := strings.TrimSpace(req.Password)
	if len(password) < 8 || len(password) > 150 {
		utils.Error(ctx, http.StatusBadRequest, 40003, "password must be 8-150 characters")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := a.users.EmailTaken(ctx.Request.Context(), email, 0)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}
	if taken {
		utils.Error(ctx, http.StatusConflict, 40901, "email is already taken")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		utils.FromError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  publicUser(&user),
	})
}

// Login authenticates with email and password. Unknown email and wrong
// password produce the same response.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := a.users.FindByEmail(ctx.Request.Context(), email)
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  publicUser(user),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenDuration)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's account.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	user, err := a.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"user": publicUser(user)})
}

// UpdateSettings applies a partial update of profile fields. Empty fields are
// left untouched.
func (a *AuthController) UpdateSettings(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Bio      string `json:"bio"`
		Image    string `json:"image"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request payload")
		return
	}

	user, err := a.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	if name := utils.StripHTML(strings.TrimSpace(req.Name)); name != "" {
		if l := len([]rune(name)); l < 2 || l > 50 {
			utils.Error(ctx, http.StatusBadRequest, 40006, "name must be 2-50 characters")
			return
		}
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		if len(email) > 200 || !strings.Contains(email, "@") {
			utils.Error(ctx, http.StatusBadRequest, 40007, "invalid email")
			return
		}
		taken, err := a.users.EmailTaken(ctx.Request.Context(), email, user.ID)
		if err != nil {
			utils.FromError(ctx, err)
			return
		}
		if taken {
			utils.Error(ctx, http.StatusConflict, 40901, "email is already taken")
			return
		}
		user.Email = email
	}
	if bio := utils.StripHTML(strings.TrimSpace(req.Bio)); bio != "" {
		if l := len([]rune(bio)); l < 4 || l > 100 {
			utils.Error(ctx, http.StatusBadRequest, 40008, "bio must be 4-100 characters")
			return
		}
		user.Bio = bio
	}
	if image := strings.TrimSpace(req.Image); image != "" {
		if len(image) > 500 {
			utils.Error(ctx, http.StatusBadRequest, 40009, "image url too long")
			return
		}
		user.Image = image
	}
	if password := strings.TrimSpace(req.Password); password != "" {
		if len(password) < 8 || len(password) > 150 {
			utils.Error(ctx, http.StatusBadRequest, 40010, "password must be 8-150 characters")
			return
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}

	if err := a.users.Update(ctx.Request.Context(), user); err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"user": publicUser(user)})
}
