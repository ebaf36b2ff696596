package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"conduit/models"
	"conduit/repository"
	"conduit/utils"
)

// ArticleController serves article creation, the feed variants, article
// detail, and the popular-tags summary.
type ArticleController struct {
	posts      repository.PostRepository
	comments   repository.CommentRepository
	favourites repository.FavouriteRepository
}

// NewArticleController creates an ArticleController.
func NewArticleController(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	favourites repository.FavouriteRepository,
) *ArticleController {
	return &ArticleController{posts: posts, comments: comments, favourites: favourites}
}

// CreateArticle publishes a new article for the authenticated author. The
// slug is derived from the title once and never changes.
func (a *ArticleController) CreateArticle(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Content     string   `json:"content" binding:"required"`
		Tags        []string `json:"tags" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.StripHTML(strings.TrimSpace(req.Title))
	if l := len([]rune(title)); l < 4 || l > 150 {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title must be 4-150 characters")
		return
	}
	description := utils.StripHTML(strings.TrimSpace(req.Description))
	if l := len([]rune(description)); l < 10 || l > 500 {
		utils.Error(ctx, http.StatusBadRequest, 40022, "description must be 10-500 characters")
		return
	}
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
		return
	}
	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		tag = utils.StripHTML(strings.TrimSpace(tag))
		if l := len([]rune(tag)); l < 2 || l > 25 {
			utils.Error(ctx, http.StatusBadRequest, 40024, "tags must be 2-25 characters")
			return
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40025, "at least one tag is required")
		return
	}

	slug, err := a.availableSlug(ctx, title)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	post := models.Post{
		Slug:        slug,
		UserID:      userID,
		Title:       title,
		Description: description,
		Content:     content,
	}
	if err := a.posts.Create(ctx.Request.Context(), &post, tags); err != nil {
		utils.FromError(ctx, err)
		return
	}

	// New articles change every feed page and the tag summary.
	utils.InvalidateByPrefix("cache:articles:")
	utils.InvalidateByPrefix("cache:tags:")

	utils.Success(ctx, gin.H{"article": gin.H{
		"id":         post.ID,
		"slug":       post.Slug,
		"title":      post.Title,
		"created_at": post.CreatedAt,
	}})
}

// availableSlug appends a numeric suffix when the plain slug is taken.
func (a *ArticleController) availableSlug(ctx *gin.Context, title string) (string, error) {
	slug := utils.Slugify(title)
	taken, err := a.posts.SlugTaken(ctx.Request.Context(), slug)
	if err != nil {
		return "", err
	}
	for n := 2; taken; n++ {
		slug = utils.SlugWithSuffix(title, n)
		if taken, err = a.posts.SlugTaken(ctx.Request.Context(), slug); err != nil {
			return "", err
		}
	}
	return slug, nil
}

// ListArticles serves the global feed and its filtered variants: by tag, by
// author, and by favouriting user. The viewer flag is computed when an
// authenticated viewer is present.
func (a *ArticleController) ListArticles(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	viewerID, _ := getUserID(ctx)

	q := repository.FeedQuery{
		Page:     page,
		PageSize: pageSize,
		Tag:      strings.TrimSpace(ctx.Query("tag")),
		ViewerID: viewerID,
	}
	if raw := strings.TrimSpace(ctx.Query("author")); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40026, "invalid author id")
			return
		}
		q.AuthorID = id
	}
	if raw := strings.TrimSpace(ctx.Query("favourited_by")); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40027, "invalid favourited_by id")
			return
		}
		q.FavouritedBy = id
	}

	// Anonymous unfiltered pages are hot and viewer-independent; cache them.
	cacheable := viewerID == 0 && q.Tag == "" && q.AuthorID == 0 && q.FavouritedBy == 0
	cacheKey := fmt.Sprintf("cache:articles:feed:page=%d:size=%d", page, pageSize)
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	feed, err := a.posts.FeedPage(ctx.Request.Context(), q)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	if cacheable {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: feed}, time.Hour)
	}
	utils.Success(ctx, feed)
}

// YourFeed lists articles by authors the viewer follows.
func (a *ArticleController) YourFeed(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	feed, err := a.posts.FeedPage(ctx.Request.Context(), repository.FeedQuery{
		Page:       page,
		PageSize:   pageSize,
		FollowedBy: userID,
		ViewerID:   userID,
	})
	if err != nil {
		utils.FromError(ctx, err)
		return
	}
	utils.Success(ctx, feed)
}

// GetArticle returns the full article by slug, with its ordered tags, author,
// favourite aggregate, viewer flag, and oldest-first comments.
func (a *ArticleController) GetArticle(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40028, "missing article slug")
		return
	}

	post, err := a.posts.FindBySlug(ctx.Request.Context(), slug)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	favCount, err := a.favourites.CountForPost(ctx.Request.Context(), post.ID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	favourited := false
	if viewerID, ok := getUserID(ctx); ok {
		if favourited, err = a.favourites.Exists(ctx.Request.Context(), viewerID, post.ID); err != nil {
			utils.FromError(ctx, err)
			return
		}
	}

	comments, err := a.comments.ListForPost(ctx.Request.Context(), post.ID, false)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"article": gin.H{
		"id":          post.ID,
		"slug":        post.Slug,
		"title":       post.Title,
		"description": post.Description,
		"content":     post.Content,
		"tags":        models.TagNames(post.Tags),
		"created_at":  post.CreatedAt,
		"author": repository.AuthorSummary{
			ID:    post.User.ID,
			Name:  post.User.Name,
			Image: post.User.Image,
		},
		"favourites_count": favCount,
		"favourited":       favourited,
		"comments":         commentViews(comments),
	}})
}

// TopTags returns the tag popularity summary.
func (a *ArticleController) TopTags(ctx *gin.Context) {
	const cacheKey = "cache:tags:top"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	tags, err := a.posts.TopTags(ctx.Request.Context(), repository.DefaultTopTags)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	payload := gin.H{"tags": tags}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}
