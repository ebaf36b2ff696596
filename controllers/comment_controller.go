package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"conduit/models"
	"conduit/repository"
	"conduit/utils"
)

// CommentController appends, lists, and removes comments under articles.
type CommentController struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

// NewCommentController creates a CommentController.
func NewCommentController(posts repository.PostRepository, comments repository.CommentRepository) *CommentController {
	return &CommentController{posts: posts, comments: comments}
}

// CreateComment appends a comment to an article for the authenticated actor.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	slug := strings.TrimSpace(ctx.Param("slug"))
	post, err := c.posts.FindBySlug(ctx.Request.Context(), slug)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	content := utils.StripHTML(strings.TrimSpace(req.Content))
	if l := len([]rune(content)); l < 2 || l > 250 {
		utils.Error(ctx, http.StatusBadRequest, 40031, "comment must be 2-250 characters")
		return
	}

	comment := models.Comment{PostID: post.ID, UserID: userID, Content: content}
	if err := c.comments.Create(ctx.Request.Context(), &comment); err != nil {
		utils.FromError(ctx, err)
		return
	}

	created, err := c.comments.FindByID(ctx.Request.Context(), comment.ID)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"comment": commentView(*created)})
}

// ListComments returns an article's comment panel, newest-first by default;
// order=oldest selects the article-view ordering.
func (c *CommentController) ListComments(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	post, err := c.posts.FindBySlug(ctx.Request.Context(), slug)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	newestFirst := strings.TrimSpace(ctx.Query("order")) != "oldest"
	comments, err := c.comments.ListForPost(ctx.Request.Context(), post.ID, newestFirst)
	if err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"comments": commentViews(comments)})
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	commentID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid comment id")
		return
	}

	if err := c.comments.Delete(ctx.Request.Context(), commentID, userID); err != nil {
		utils.FromError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

func commentView(comment models.Comment) gin.H {
	return gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
		"author": repository.AuthorSummary{
			ID:    comment.User.ID,
			Name:  comment.User.Name,
			Image: comment.User.Image,
		},
	}
}

func commentViews(comments []models.Comment) []gin.H {
	views := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		views = append(views, commentView(comment))
	}
	return views
}
