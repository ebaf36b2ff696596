package models

import "time"

// Favourite marks a post as favourited by a user. The composite unique index
// is the integrity guarantee against duplicate rows; the toggle's existence
// check is only an optimization on top of it.
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
