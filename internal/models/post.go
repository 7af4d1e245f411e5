package models

import (
	"time"
)

// Post is a cached reddit post. RedditPostID is the reddit fullname
// (e.g. t3_abc123); refreshes upsert on it, so re-fetching the same post
// updates its stats instead of inserting a duplicate.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubredditID  uint      `gorm:"not null;index" json:"subreddit_id"`
	Subreddit    Subreddit `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	RedditPostID string    `gorm:"uniqueIndex;not null" json:"reddit_post_id"`
	Title        string    `gorm:"not null" json:"title"`
	Author       string    `json:"author"`
	Content      string    `gorm:"type:text" json:"content"`
	Score        int       `gorm:"default:0" json:"score"`
	NumComments  int       `gorm:"default:0" json:"num_comments"`
	CreatedUTC   int64     `gorm:"index" json:"created_utc"` // unix seconds
	URL          string    `json:"url"`
	FetchedAt    time.Time `json:"fetched_at"`
}
