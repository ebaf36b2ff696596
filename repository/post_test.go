package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/apperror"
	"conduit/models"
)

func TestFeedPage_PaginationInvariant(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	const total = 12
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < total; i++ {
		createTestPost(t, db, author, fmt.Sprintf("post-%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	for _, tc := range []struct {
		page, pageSize int
	}{
		{1, 5}, {2, 5}, {3, 5}, {4, 5},
		{1, 12}, {2, 12},
		{1, 1}, {12, 1}, {13, 1},
		{1, 100},
	} {
		feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: tc.page, PageSize: tc.pageSize})
		require.NoError(t, err)

		expected := total - tc.pageSize*(tc.page-1)
		if expected < 0 {
			expected = 0
		}
		if expected > tc.pageSize {
			expected = tc.pageSize
		}

		assert.Equal(t, int64(total), feed.Total, "page=%d size=%d", tc.page, tc.pageSize)
		assert.Len(t, feed.Items, expected, "page=%d size=%d", tc.page, tc.pageSize)
		assert.Equal(t, tc.page, feed.Page)
		assert.Equal(t, tc.pageSize, feed.PageSize)
	}
}

func TestFeedPage_DefaultsOnGarbageInput(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		createTestPost(t, db, author, fmt.Sprintf("post-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	// Non-positive values fall back to page 1 / the default page size.
	fallback, err := repo.FeedPage(testCtx(), FeedQuery{Page: -3, PageSize: -5})
	require.NoError(t, err)
	explicit, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: DefaultPageSize})
	require.NoError(t, err)

	assert.Equal(t, explicit, fallback)
	assert.Equal(t, 1, fallback.Page)
	assert.Equal(t, DefaultPageSize, fallback.PageSize)
	assert.Len(t, fallback.Items, DefaultPageSize)

	// Oversized page sizes are clamped back to the default too.
	huge, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: MaxPageSize + 1})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, huge.PageSize)
}

func TestFeedPage_OrderingWithTimestampCollision(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	// All posts share one timestamp; the primary key breaks the tie.
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := createTestPost(t, db, author, "first", at)
	second := createTestPost(t, db, author, "second", at)
	third := createTestPost(t, db, author, "third", at)

	feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)

	assert.Equal(t, third.ID, feed.Items[0].ID)
	assert.Equal(t, second.ID, feed.Items[1].ID)
	assert.Equal(t, first.ID, feed.Items[2].ID)
}

func TestFeedPage_FavouriteCountsAndViewerFlag(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	popular := createTestPost(t, db, author, "popular", at)
	quiet := createTestPost(t, db, author, "quiet", at.Add(time.Minute))

	require.NoError(t, db.Create(&models.Favourite{UserID: bob.ID, PostID: popular.ID}).Error)
	require.NoError(t, db.Create(&models.Favourite{UserID: carol.ID, PostID: popular.ID}).Error)

	// Anonymous read: counts present, flags always false.
	feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, feed.Items, 2)
	byID := map[uint]FeedItem{}
	for _, item := range feed.Items {
		byID[item.ID] = item
	}
	assert.Equal(t, int64(2), byID[popular.ID].FavouritesCount)
	assert.Equal(t, int64(0), byID[quiet.ID].FavouritesCount)
	assert.False(t, byID[popular.ID].Favourited)

	// Bob sees his own flag, carol's favourite stays invisible to him.
	feed, err = repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10, ViewerID: bob.ID})
	require.NoError(t, err)
	byID = map[uint]FeedItem{}
	for _, item := range feed.Items {
		byID[item.ID] = item
	}
	assert.True(t, byID[popular.ID].Favourited)
	assert.False(t, byID[quiet.ID].Favourited)
	assert.Equal(t, int64(2), byID[popular.ID].FavouritesCount)
}

func TestFeedPage_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	goPost := createTestPost(t, db, alice, "go-post", base, "golang", "backend")
	webPost := createTestPost(t, db, bob, "web-post", base.Add(time.Minute), "frontend")
	otherPost := createTestPost(t, db, bob, "other-post", base.Add(2*time.Minute), "golang")

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)
	require.NoError(t, db.Create(&models.Favourite{UserID: alice.ID, PostID: webPost.ID}).Error)

	t.Run("by tag", func(t *testing.T) {
		feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10, Tag: "golang"})
		require.NoError(t, err)
		require.Len(t, feed.Items, 2)
		assert.Equal(t, int64(2), feed.Total)
		assert.Equal(t, otherPost.ID, feed.Items[0].ID)
		assert.Equal(t, goPost.ID, feed.Items[1].ID)
	})

	t.Run("by author", func(t *testing.T) {
		feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10, AuthorID: alice.ID})
		require.NoError(t, err)
		require.Len(t, feed.Items, 1)
		assert.Equal(t, goPost.ID, feed.Items[0].ID)
		assert.Equal(t, "alice", feed.Items[0].Author.Name)
	})

	t.Run("followed authors", func(t *testing.T) {
		feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10, FollowedBy: alice.ID})
		require.NoError(t, err)
		require.Len(t, feed.Items, 2)
		assert.Equal(t, otherPost.ID, feed.Items[0].ID)
		assert.Equal(t, webPost.ID, feed.Items[1].ID)
	})

	t.Run("favourited by", func(t *testing.T) {
		feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10, FavouritedBy: alice.ID})
		require.NoError(t, err)
		require.Len(t, feed.Items, 1)
		assert.Equal(t, webPost.ID, feed.Items[0].ID)
	})

	t.Run("empty feed for follower of nobody", func(t *testing.T) {
		feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10, FollowedBy: bob.ID})
		require.NoError(t, err)
		assert.Empty(t, feed.Items)
		assert.Equal(t, int64(0), feed.Total)
	})
}

func TestFeedPage_TagsStayOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, db, author, "tagged", at, "zeta", "alpha", "mid")

	feed, err := repo.FeedPage(testCtx(), FeedQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, feed.Items[0].Tags)
}

func TestTopTags_DeDupAndOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, db, author, "one", base, "a", "b")
	createTestPost(t, db, author, "two", base.Add(time.Minute), "a")
	// "c" repeated within one post counts once.
	createTestPost(t, db, author, "three", base.Add(2*time.Minute), "c", "c")

	tags, err := repo.TopTags(testCtx(), 10)
	require.NoError(t, err)

	require.Len(t, tags, 3)
	assert.Equal(t, TagCount{Tag: "a", Count: 2}, tags[0])
	// Equal counts order lexicographically.
	assert.Equal(t, TagCount{Tag: "b", Count: 1}, tags[1])
	assert.Equal(t, TagCount{Tag: "c", Count: 1}, tags[2])
}

func TestTopTags_Limit(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		createTestPost(t, db, author, fmt.Sprintf("p%d", i), base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("tag%02d", i))
	}

	tags, err := repo.TopTags(testCtx(), DefaultTopTags)
	require.NoError(t, err)
	assert.Len(t, tags, DefaultTopTags)
}

func TestPostCreate_DuplicateSlugConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	post := &models.Post{
		Slug:        "same-slug",
		UserID:      author.ID,
		Title:       "same title",
		Description: "a description long enough",
		Content:     "<p>content</p>",
	}
	require.NoError(t, repo.Create(testCtx(), post, []string{"one"}))

	dup := &models.Post{
		Slug:        "same-slug",
		UserID:      author.ID,
		Title:       "same title",
		Description: "a description long enough",
		Content:     "<p>content</p>",
	}
	err := repo.Create(testCtx(), dup, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestFindBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	created := createTestPost(t, db, author, "findable", at, "x1", "x2")

	post, err := repo.FindBySlug(testCtx(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, post.ID)
	assert.Equal(t, "alice", post.User.Name)
	assert.Equal(t, []string{"x1", "x2"}, models.TagNames(post.Tags))

	_, err = repo.FindBySlug(testCtx(), "missing-slug")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
