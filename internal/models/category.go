package models

import (
	"time"
)

// Category is a post theme. The four taxonomy categories are seeded at
// startup; any other label returned by the classifier is created lazily with
// IsCustom set.
type Category struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	IsCustom        bool      `gorm:"default:false" json:"is_custom"`
	CreatedByUserID *uint     `json:"created_by_user_id,omitempty"`
}

// PostCategory links one post to one category. The composite unique index
// makes re-tagging a post with the same category a no-op.
type PostCategory struct {
	PostID     uint `gorm:"not null;uniqueIndex:idx_post_category" json:"post_id"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_post_category" json:"category_id"`
}
