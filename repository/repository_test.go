package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"conduit/models"
)

// newTestDB creates an isolated in-memory SQLite database migrated with the
// full schema, destroyed when the test finishes.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostTag{},
		&models.Comment{},
		&models.Favourite{},
		&models.Follow{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestPost persists a post with an explicit creation time so ordering
// tests can control the timeline.
func createTestPost(t *testing.T, db *gorm.DB, author *models.User, title string, createdAt time.Time, tags ...string) *models.Post {
	t.Helper()
	post := &models.Post{
		Slug:        fmt.Sprintf("%s-%d", title, createdAt.UnixNano()),
		UserID:      author.ID,
		Title:       title,
		Description: "a description long enough",
		Content:     "<p>content</p>",
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	for i, tag := range tags {
		require.NoError(t, db.Create(&models.PostTag{PostID: post.ID, Tag: tag, Position: i}).Error)
	}
	return post
}

func testCtx() context.Context {
	return context.Background()
}
