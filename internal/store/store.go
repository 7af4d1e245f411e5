package store

import (
	"errors"
	"time"

	"redditradar/internal/models"
)

// ErrNotFound reports that the requested row does not exist. Callers that can
// create the missing row check for it with errors.Is; any other error is a
// real store failure and must abort the operation.
var ErrNotFound = errors.New("store: not found")

// PostWithCategories is a post row joined with its category names.
type PostWithCategories struct {
	Post       models.Post
	Categories []string
}

// Store is the persistence boundary for the refresher and the handlers. All
// SQL lives behind it so the orchestration logic can be tested against an
// in-memory fake.
type Store interface {
	SubredditByName(name string) (*models.Subreddit, error)
	CreateSubreddit(sub *models.Subreddit) error
	// TouchSubreddit sets last_updated. The refresher calls it strictly
	// after all post and join writes of a refresh cycle.
	TouchSubreddit(id uint, t time.Time) error
	ListSubreddits() ([]models.Subreddit, error)

	// PostsWithCategories returns a subreddit's cached posts, newest first.
	PostsWithCategories(subredditID uint) ([]PostWithCategories, error)
	PostsByRedditIDs(redditPostIDs []string) ([]models.Post, error)
	// UpsertPosts inserts or updates in one batch, keyed on reddit_post_id.
	// Only score, num_comments, content and fetched_at are overwritten for
	// existing rows.
	UpsertPosts(posts []models.Post) error

	// EnsureCategory returns the category with the given name, creating it
	// if absent. Race-tolerant: concurrent creation of the same name never
	// yields two rows.
	EnsureCategory(name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	UpsertPostCategory(postID, categoryID uint) error
}
