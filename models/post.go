package models

import "time"

// Post represents a published article. The slug is derived from the title at
// creation time and never changes afterwards.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Tags        []PostTag `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments    []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// PostTag is one entry of a post's ordered tag sequence. The storage level
// allows repeating the same tag within a post; aggregation de-duplicates by
// counting distinct posts per tag.
type PostTag struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	PostID   uint   `gorm:"index;not null" json:"-"`
	Tag      string `gorm:"size:25;not null;index" json:"tag"`
	Position int    `gorm:"not null" json:"-"`
}

// TagNames flattens the ordered tag sequence into plain strings.
func TagNames(tags []PostTag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names
}
