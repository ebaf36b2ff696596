package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/apperror"
	"conduit/models"
)

func TestFavouriteToggle_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavouriteRepository(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, author, "toggled", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	// First toggle activates and bumps the count.
	active, err := repo.Toggle(testCtx(), bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, active)

	exists, err := repo.Exists(testCtx(), bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, exists, "reported state must match row existence")

	count, err := repo.CountForPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Second toggle reverts both.
	active, err = repo.Toggle(testCtx(), bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, active)

	exists, err = repo.Exists(testCtx(), bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err = repo.CountForPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestFavouriteToggle_TargetMustExist(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavouriteRepository(db)
	bob := createTestUser(t, db, "bob")

	_, err := repo.Toggle(testCtx(), bob.ID, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFavourite_DeleteAbsentPairIsNoOp(t *testing.T) {
	db := newTestDB(t)

	// Deleting rows for a pair that was never favourited must not error.
	err := db.Where("user_id = ? AND post_id = ?", 42, 43).Delete(&models.Favourite{}).Error
	assert.NoError(t, err)
}

func TestFavourite_UniqueConstraintHeldByStore(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, author, "guarded", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	// The constraint holds independently of the toggle logic.
	require.NoError(t, db.Create(&models.Favourite{UserID: bob.ID, PostID: post.ID}).Error)
	err := db.Create(&models.Favourite{UserID: bob.ID, PostID: post.ID}).Error
	require.Error(t, err)
	assert.True(t, isDuplicateErr(err))

	var count int64
	require.NoError(t, db.Model(&models.Favourite{}).
		Where("user_id = ? AND post_id = ?", bob.ID, post.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "never more than one row per pair")
}

func TestFavouriteToggle_LostRaceStillReportsActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavouriteRepository(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, author, "raced", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	// Same users may favourite different posts and different users the same
	// post; only the exact pair is unique.
	carol := createTestUser(t, db, "carol")
	require.NoError(t, db.Create(&models.Favourite{UserID: carol.ID, PostID: post.ID}).Error)

	active, err := repo.Toggle(testCtx(), bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, active)

	count, err := repo.CountForPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
