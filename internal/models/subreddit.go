package models

import (
	"time"
)

// Subreddit is a tracked subreddit. A row is created the first time a
// subreddit is requested; LastUpdated stays nil until the first successful
// refresh, which the refresher reads as "infinitely stale".
type Subreddit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated *time.Time `json:"last_updated"`
}
