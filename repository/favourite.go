package repository

import (
	"context"

	"gorm.io/gorm"

	"conduit/apperror"
	"conduit/models"
)

// FavouriteRepository flips and inspects the user-post favourite relation.
type FavouriteRepository interface {
	// Toggle flips membership for (userID, postID) and reports whether the
	// relation is active afterwards.
	Toggle(ctx context.Context, userID, postID uint) (bool, error)
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type favouriteRepository struct {
	db *gorm.DB
}

// NewFavouriteRepository creates a gorm backed FavouriteRepository.
func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

// Toggle is existence-check-then-write. The unique index on (user_id,
// post_id) is the source of truth against duplicate rows; the check is only
// an optimization. Deleting all matching rows keeps the inactive branch
// idempotent even if duplicates ever appeared.
func (r *favouriteRepository) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	db := r.db.WithContext(ctx)

	var posts int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&posts).Error; err != nil {
		return false, err
	}
	if posts == 0 {
		return false, apperror.NotFound("post", postID)
	}

	exists, err := r.Exists(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if exists {
		err := db.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Favourite{}).Error
		return false, err
	}

	if err := db.Create(&models.Favourite{UserID: userID, PostID: postID}).Error; err != nil {
		// A concurrent toggle may have inserted the row between the check
		// and the write; the unique index rejected the duplicate, so the
		// membership is active either way.
		if isDuplicateErr(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *favouriteRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favouriteRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
