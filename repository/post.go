package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"conduit/apperror"
	"conduit/models"
)

const (
	// DefaultPageSize matches the feed's page size when the caller supplies
	// none or garbage.
	DefaultPageSize = 5
	// MaxPageSize bounds a single feed read.
	MaxPageSize = 100
	// DefaultTopTags is the size of the popular-tags summary.
	DefaultTopTags = 10
)

// FeedQuery selects one page of the article feed. Zero-value filter fields
// are inactive; filters only inject predicates and never affect ordering or
// pagination semantics.
type FeedQuery struct {
	Page     int
	PageSize int

	Tag          string // posts whose tag sequence contains this tag
	AuthorID     uint   // posts written by this user
	FollowedBy   uint   // posts by authors this user follows
	FavouritedBy uint   // posts this user favourited

	ViewerID uint // 0 = anonymous; enables the per-item Favourited flag
}

func (q FeedQuery) normalized() FeedQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize
	}
	return q
}

// AuthorSummary is the author projection attached to feed items.
type AuthorSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// FeedItem is one article row of a feed page.
type FeedItem struct {
	ID              uint          `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Tags            []string      `json:"tags"`
	CreatedAt       time.Time     `json:"created_at"`
	Author          AuthorSummary `json:"author"`
	FavouritesCount int64         `json:"favourites_count"`
	Favourited      bool          `json:"favourited"`
}

// FeedPage is a page of feed items plus the unfiltered-total for the applied
// predicate set, read in the same transaction as the items.
type FeedPage struct {
	Items    []FeedItem `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// TagCount is one row of the tag popularity summary.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// PostRepository hides query composition for articles behind named methods so
// the feed pipeline stays storage-engine agnostic.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	FeedPage(ctx context.Context, q FeedQuery) (*FeedPage, error)
	TopTags(ctx context.Context, limit int) ([]TagCount, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a gorm backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create persists the post and its ordered tag sequence in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			if isDuplicateErr(err) {
				return apperror.Conflict("an article with this title already exists")
			}
			return err
		}
		for i, tag := range tags {
			if err := tx.Create(&models.PostTag{PostID: post.ID, Tag: tag, Position: i}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags", orderTags).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags", orderTags).
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", slug)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FeedPage composes the paginated listing. Count, page rows, favourite
// aggregates, and viewer flags all execute inside one transaction so the
// total cannot drift from the returned items in the common case.
func (r *postRepository) FeedPage(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	q = q.normalized()
	page := &FeedPage{
		Items:    []FeedItem{},
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := feedScope(tx, q).Count(&page.Total).Error; err != nil {
			return err
		}

		var posts []models.Post
		err := feedScope(tx, q).
			Preload("User").
			Preload("Tags", orderTags).
			Order("created_at DESC, id DESC").
			Offset(q.PageSize * (q.Page - 1)).
			Limit(q.PageSize).
			Find(&posts).Error
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}

		counts, err := favouriteCounts(tx, ids)
		if err != nil {
			return err
		}

		var viewerFavs map[uint]bool
		if q.ViewerID != 0 {
			viewerFavs, err = viewerFavourites(tx, q.ViewerID, ids)
			if err != nil {
				return err
			}
		}

		for _, p := range posts {
			page.Items = append(page.Items, FeedItem{
				ID:          p.ID,
				Slug:        p.Slug,
				Title:       p.Title,
				Description: p.Description,
				Tags:        models.TagNames(p.Tags),
				CreatedAt:   p.CreatedAt,
				Author: AuthorSummary{
					ID:    p.User.ID,
					Name:  p.User.Name,
					Image: p.User.Image,
				},
				FavouritesCount: counts[p.ID],
				Favourited:      viewerFavs[p.ID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// TopTags aggregates tag popularity across all posts. A tag repeated inside
// one post counts once; ties order lexicographically for a stable summary.
func (r *postRepository) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	if limit < 1 {
		limit = DefaultTopTags
	}
	tags := []TagCount{}
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Select("tag, COUNT(DISTINCT post_id) AS count").
		Group("tag").
		Order("count DESC, tag ASC").
		Limit(limit).
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// feedScope applies the query's predicate to a fresh Post query builder.
func feedScope(tx *gorm.DB, q FeedQuery) *gorm.DB {
	scope := tx.Model(&models.Post{})
	if q.Tag != "" {
		scope = scope.Where("id IN (?)",
			tx.Model(&models.PostTag{}).Select("post_id").Where("tag = ?", q.Tag))
	}
	if q.AuthorID != 0 {
		scope = scope.Where("user_id = ?", q.AuthorID)
	}
	if q.FollowedBy != 0 {
		scope = scope.Where("user_id IN (?)",
			tx.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", q.FollowedBy))
	}
	if q.FavouritedBy != 0 {
		scope = scope.Where("id IN (?)",
			tx.Model(&models.Favourite{}).Select("post_id").Where("user_id = ?", q.FavouritedBy))
	}
	return scope
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func favouriteCounts(tx *gorm.DB, postIDs []uint) (map[uint]int64, error) {
	type row struct {
		PostID uint
		N      int64
	}
	var rows []row
	err := tx.Model(&models.Favourite{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.N
	}
	return counts, nil
}

func viewerFavourites(tx *gorm.DB, viewerID uint, postIDs []uint) (map[uint]bool, error) {
	var ids []uint
	err := tx.Model(&models.Favourite{}).
		Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	favs := make(map[uint]bool, len(ids))
	for _, id := range ids {
		favs[id] = true
	}
	return favs, nil
}
