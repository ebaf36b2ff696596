package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"conduit/repository"
	"conduit/utils"
)

// SocialController exposes the favourite and follow toggles plus public
// profiles with viewer-relative flags.
type SocialController struct {
	users      repository.UserRepository
	posts      repository.PostRepository
	favourites repository.FavouriteRepository
	follows    repository.FollowRepository
}

// NewSocialController creates a SocialController.
func NewSocialController(
	users repository.UserRepository,
	posts repository.PostRepository,
	favourites repository.FavouriteRepository,
	follows repository.FollowRepository,
) *SocialController {
	return &SocialController{users: users, posts: posts, favourites: favourites, follows: follows}
}

// ToggleFavourite flips the viewer's favourite on an article and reports the
// resulting state and count.
func (s *SocialController) ToggleFavourite(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	slug := strings.TrimSpace(ctx.Param("slug"))
	post, err := s.posts.FindBySlug(ctx.Request.Context(), slug)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	active, err := s.favourites.Toggle(ctx.Request.Context(), userID, post.ID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	count, err := s.favourites.CountForPost(ctx.Request.Context(), post.ID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	// Favourite counts are baked into cached feed pages.
	utils.InvalidateByPrefix("cache:articles:")

	utils.Success(ctx, gin.H{
		"active":           active,
		"favourites_count": count,
	})
}

// ToggleFollow flips the viewer's follow edge towards another user.
func (s *SocialController) ToggleFollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	targetID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid user id")
		return
	}

	active, err := s.follows.Toggle(ctx.Request.Context(), userID, targetID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"active": active})
}

// GetProfile returns public user info plus the follower count and, for an
// authenticated viewer, whether they follow this user.
func (s *SocialController) GetProfile(ctx *gin.Context) {
	profileID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid user id")
		return
	}

	user, err := s.users.FindByID(ctx.Request.Context(), profileID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	followers, err := s.follows.FollowerCount(ctx.Request.Context(), profileID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	following := false
	if viewerID, viewerOk := getUserID(ctx); viewerOk {
		if following, err = s.follows.Exists(ctx.Request.Context(), viewerID, profileID); err != nil {
			utils.FromError(ctx, err)
			return
		}
	}

	utils.Success(ctx, gin.H{"profile": gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"bio":       user.Bio,
		"image":     user.Image,
		"followers": followers,
		"following": following,
	}})
}
