package repository

import (
	"context"

	"gorm.io/gorm"

	"conduit/apperror"
	"conduit/models"
)

// FollowRepository flips and inspects the directed follow relation.
type FollowRepository interface {
	// Toggle flips the follower→following edge and reports whether it is
	// active afterwards. Self-follow is rejected as invalid input.
	Toggle(ctx context.Context, followerID, followingID uint) (bool, error)
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	FollowerCount(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a gorm backed FollowRepository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, apperror.InvalidInput("id", "cannot follow yourself")
	}

	db := r.db.WithContext(ctx)

	var users int64
	if err := db.Model(&models.User{}).Where("id = ?", followingID).Count(&users).Error; err != nil {
		return false, err
	}
	if users == 0 {
		return false, apperror.NotFound("user", followingID)
	}

	exists, err := r.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if exists {
		err := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{}).Error
		return false, err
	}

	if err := db.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
		// Lost the race with a concurrent toggle; the edge exists.
		if isDuplicateErr(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}
