package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/apperror"
	"conduit/models"
)

func TestCommentCreate_RequiresExistingPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	bob := createTestUser(t, db, "bob")

	err := repo.Create(testCtx(), &models.Comment{PostID: 9999, UserID: bob.ID, Content: "hi there"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCommentList_BothOrderings(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, author, "discussed", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	base := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, content := range []string{"first comment", "second comment", "third comment"} {
		require.NoError(t, db.Create(&models.Comment{
			PostID:    post.ID,
			UserID:    bob.ID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	newest, err := repo.ListForPost(testCtx(), post.ID, true)
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, "third comment", newest[0].Content)
	assert.Equal(t, "first comment", newest[2].Content)
	assert.Equal(t, "bob", newest[0].User.Name)

	oldest, err := repo.ListForPost(testCtx(), post.ID, false)
	require.NoError(t, err)
	require.Len(t, oldest, 3)
	assert.Equal(t, "first comment", oldest[0].Content)
	assert.Equal(t, "third comment", oldest[2].Content)
}

func TestCommentDelete_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	mallory := createTestUser(t, db, "mallory")
	post := createTestPost(t, db, author, "guarded", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	comment := &models.Comment{PostID: post.ID, UserID: bob.ID, Content: "bob's comment"}
	require.NoError(t, repo.Create(testCtx(), comment))

	// A different authenticated user cannot delete it.
	err := repo.Delete(testCtx(), comment.ID, mallory.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	still, err := repo.FindByID(testCtx(), comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, still.ID)

	// The author can.
	require.NoError(t, repo.Delete(testCtx(), comment.ID, bob.ID))
	_, err = repo.FindByID(testCtx(), comment.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCommentDelete_MissingComment(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	bob := createTestUser(t, db, "bob")

	err := repo.Delete(testCtx(), 9999, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
