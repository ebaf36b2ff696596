package models

import "time"

// Follow is a directed edge in the follow graph: follower watches following.
// At most one row may exist per ordered pair.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
