package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"conduit/apperror"
	"conduit/models"
)

// CommentRepository appends and removes comments under posts. Comments have
// no update path.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	// ListForPost returns a post's comments, newest-first for the comment
	// panel or oldest-first for the embedded article view.
	ListForPost(ctx context.Context, postID uint, newestFirst bool) ([]models.Comment, error)
	// Delete removes a comment after verifying the requester authored it.
	Delete(ctx context.Context, commentID, requesterID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a gorm backed CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)

	var posts int64
	if err := db.Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&posts).Error; err != nil {
		return err
	}
	if posts == 0 {
		return apperror.NotFound("post", comment.PostID)
	}

	return db.Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListForPost(ctx context.Context, postID uint, newestFirst bool) ([]models.Comment, error) {
	order := "created_at ASC, id ASC"
	if newestFirst {
		order = "created_at DESC, id DESC"
	}
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order(order).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID, requesterID uint) error {
	db := r.db.WithContext(ctx)

	var comment models.Comment
	if err := db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("comment", commentID)
		}
		return err
	}

	if comment.UserID != requesterID {
		return apperror.Forbidden("you can only delete your own comment")
	}

	return db.Delete(&comment).Error
}
